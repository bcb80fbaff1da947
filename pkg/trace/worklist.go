package trace

// worklist is an insertion-ordered, deduplicated queue of module identifiers
// awaiting processing. Shifting from the front realizes breadth-first
// traversal; membership checks and removal are O(1).
type worklist struct {
	queue []string
	seen  map[string]bool
}

func newWorklist() *worklist {
	return &worklist{seen: make(map[string]bool)}
}

// push appends id unless it is already queued.
func (w *worklist) push(id string) bool {
	if w.seen[id] {
		return false
	}
	w.seen[id] = true
	w.queue = append(w.queue, id)
	return true
}

// shift removes and returns the oldest queued id.
func (w *worklist) shift() (string, bool) {
	if len(w.queue) == 0 {
		return "", false
	}
	id := w.queue[0]
	w.queue = w.queue[1:]
	delete(w.seen, id)
	return id, true
}

func (w *worklist) len() int {
	return len(w.queue)
}
