package trace

import (
	"context"
	"os"

	"github.com/amdtrace/amdtrace/pkg/amd"
)

// ReadFileFunc reads the file at path and returns its contents. The default
// implementation is os.ReadFile behind a context check; failures carry the
// path and OS error code via *fs.PathError.
type ReadFileFunc func(ctx context.Context, path string) ([]byte, error)

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

type readResult struct {
	data []byte
	err  error
}

// pendingRead is a started-but-not-yet-awaited file read for one discovered
// module, together with the path it reads and the module's decomposition.
type pendingRead struct {
	ref  amd.ModuleRef
	path string
	done chan readResult
}

// startRead begins reading path in its own goroutine. The result channel is
// buffered so the goroutine always completes, even when the trace aborts
// before this read is ever awaited; an unobserved failure simply rests in
// the buffer until the entry is garbage collected.
func startRead(ctx context.Context, read ReadFileFunc, ref amd.ModuleRef, path string) *pendingRead {
	p := &pendingRead{ref: ref, path: path, done: make(chan readResult, 1)}
	go func() {
		data, err := read(ctx, path)
		p.done <- readResult{data: data, err: err}
	}()
	return p
}

// await blocks until the read completes or ctx is done. It must be called at
// most once per pendingRead.
func (p *pendingRead) await(ctx context.Context) ([]byte, error) {
	select {
	case res := <-p.done:
		return res.data, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
