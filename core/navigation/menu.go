// Package navigation owns the role-annotated menu tree and the filter that
// renders the subset visible to the current identity.
package navigation

import (
	"sync"

	"github.com/edusuite/darasa/core/session"
	"github.com/edusuite/darasa/core/user"
)

// Node is one entry of the static menu forest. The forest itself is never
// mutated at runtime; only its rendered view varies per identity.
type Node struct {
	Title    string      `json:"title"`
	Path     string      `json:"path"`
	Roles    []user.Role `json:"roles,omitempty"`
	Children []Node      `json:"children,omitempty"`
}

func (n Node) visibleTo(s session.Session) bool {
	if !s.IsAuthenticated {
		return false
	}
	// every real menu entry declares an explicit role list; an empty list is
	// a policy gap and means visible to no one
	for _, r := range n.Roles {
		if r == s.Role() {
			return true
		}
	}
	return false
}

// Visible filters the menu forest down to the nodes the session's identity
// may see. The role check applies independently at every depth: a child is
// never shown on the strength of its parent passing.
func Visible(nodes []Node, s session.Session) []Node {
	var out []Node
	for _, n := range nodes {
		if !n.visibleTo(s) {
			continue
		}
		n.Children = Visible(n.Children, s)
		out = append(out, n)
	}
	return out
}

// Toggles tracks which menu nodes are expanded, keyed by node path.
// Presentation-only: it has no bearing on visibility.
type Toggles struct {
	mu   sync.Mutex
	open map[string]bool
}

func NewToggles() *Toggles {
	return &Toggles{open: make(map[string]bool)}
}

// Toggle flips the node's expanded state and returns the new state.
func (t *Toggles) Toggle(path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.open[path] = !t.open[path]
	return t.open[path]
}

func (t *Toggles) IsOpen(path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.open[path]
}
