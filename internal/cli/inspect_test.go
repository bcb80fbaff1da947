package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amdtrace/amdtrace/pkg/dag"
)

func browseTestGraph(t *testing.T) *dag.DAG {
	t.Helper()
	g := dag.New(nil)
	ids := []string{"app/main", "app/cart", "text!app/cart.html", "lib/dom"}
	for _, id := range ids {
		if err := g.AddNode(dag.Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%q) error = %v", id, err)
		}
	}
	edges := []dag.Edge{
		{From: "app/main", To: "app/cart"},
		{From: "app/cart", To: "text!app/cart.html"},
		{From: "app/cart", To: "lib/dom"},
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%s -> %s) error = %v", e.From, e.To, err)
		}
	}
	return g
}

func pressKeys(t *testing.T, m moduleListModel, keys ...string) moduleListModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(moduleListModel)
	}
	return m
}

func TestNewModuleListModel(t *testing.T) {
	m := newModuleListModel("app/main", browseTestGraph(t))

	if len(m.ids) != 4 {
		t.Fatalf("ids count = %d, want 4", len(m.ids))
	}
	if m.ids[0] != "app/main" {
		t.Errorf("first id = %q, want the entry module", m.ids[0])
	}
	if m.cursor != 0 || m.offset != 0 {
		t.Errorf("initial cursor/offset = %d/%d, want 0/0", m.cursor, m.offset)
	}
}

func TestModuleListNavigation(t *testing.T) {
	m := newModuleListModel("app/main", browseTestGraph(t))

	m = pressKeys(t, m, "j", "j")
	if m.cursor != 2 {
		t.Errorf("cursor after jj = %d, want 2", m.cursor)
	}

	m = pressKeys(t, m, "k")
	if m.cursor != 1 {
		t.Errorf("cursor after k = %d, want 1", m.cursor)
	}

	m = pressKeys(t, m, "G")
	if m.cursor != 3 {
		t.Errorf("cursor after G = %d, want 3", m.cursor)
	}

	m = pressKeys(t, m, "g")
	if m.cursor != 0 || m.offset != 0 {
		t.Errorf("cursor/offset after g = %d/%d, want 0/0", m.cursor, m.offset)
	}

	// Clamped at both ends
	m = pressKeys(t, m, "k")
	if m.cursor != 0 {
		t.Errorf("cursor should stay at 0, got %d", m.cursor)
	}
	m = pressKeys(t, m, "G", "j")
	if m.cursor != 3 {
		t.Errorf("cursor should stay at 3, got %d", m.cursor)
	}
}

func TestModuleListScrolling(t *testing.T) {
	m := newModuleListModel("app/main", browseTestGraph(t))
	m.height = 2

	m = pressKeys(t, m, "j", "j", "j")
	if m.cursor != 3 {
		t.Fatalf("cursor = %d, want 3", m.cursor)
	}
	if m.offset != 2 {
		t.Errorf("offset = %d, want 2 (cursor kept in window)", m.offset)
	}

	m = pressKeys(t, m, "k", "k", "k")
	if m.offset != 0 {
		t.Errorf("offset after scrolling back = %d, want 0", m.offset)
	}
}

func TestModuleListQuit(t *testing.T) {
	m := newModuleListModel("app/main", browseTestGraph(t))

	for _, key := range []string{"q", "esc"} {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		if key == "esc" {
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		}
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("key %q should quit", key)
		}
		got := cmd()
		if _, ok := got.(tea.QuitMsg); !ok {
			t.Errorf("key %q returned %T, want tea.QuitMsg", key, got)
		}
	}
}

func TestModuleListWindowResize(t *testing.T) {
	m := newModuleListModel("app/main", browseTestGraph(t))

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	m = next.(moduleListModel)
	if m.height != 30 {
		t.Errorf("height after resize = %d, want 30", m.height)
	}

	next, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	m = next.(moduleListModel)
	if m.height != 5 {
		t.Errorf("height should not drop below 5, got %d", m.height)
	}
}

func TestModuleListView(t *testing.T) {
	m := newModuleListModel("app/main", browseTestGraph(t))
	view := m.View()

	if !strings.Contains(view, "Modules of app/main") {
		t.Error("view missing title")
	}
	for _, id := range m.ids {
		if !strings.Contains(view, id) {
			t.Errorf("view missing module %q", id)
		}
	}
	if !strings.Contains(view, "[1/4]") {
		t.Error("view missing position footer")
	}
	if !strings.Contains(view, "Depends on:") || !strings.Contains(view, "Required by:") {
		t.Error("view missing detail panel")
	}
}

func TestModuleListDetailPlugin(t *testing.T) {
	m := newModuleListModel("app/main", browseTestGraph(t))
	m = pressKeys(t, m, "j", "j") // text!app/cart.html

	detail := m.detailView()
	if !strings.Contains(detail, "Plugin:") || !strings.Contains(detail, "text") {
		t.Errorf("detail for a plugin module should name the plugin, got %q", detail)
	}
	if !strings.Contains(detail, "app/cart") {
		t.Errorf("detail should list the requiring module, got %q", detail)
	}
}

func TestDepsLabel(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "leaf"},
		{1, "1 dep"},
		{2, "2 deps"},
		{10, "10 deps"},
	}

	for _, tt := range tests {
		if got := depsLabel(tt.n); got != tt.want {
			t.Errorf("depsLabel(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestJoinOrDash(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want string
	}{
		{"empty", nil, "—"},
		{"single", []string{"lib/dom"}, "lib/dom"},
		{"multiple", []string{"lib/dom", "lib/ajax"}, "lib/dom, lib/ajax"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinOrDash(tt.ids); got != tt.want {
				t.Errorf("joinOrDash(%v) = %q, want %q", tt.ids, got, tt.want)
			}
		})
	}
}
