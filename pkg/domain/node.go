package domain

import "context"

// Special transition targets interpreted by the resolver rather than
// looked up in the tree.
const (
	// TargetBack pops the menu stack to the nearest ancestor.
	TargetBack = "<back>"
)

// ActionHook fetches live domain data for a screen. It is invoked
// synchronously during a transition and must return within the store's
// I/O timeout budget. The returned patch is merged into the session's
// ContextData; hooks never mutate other session fields.
type ActionHook func(ctx context.Context, s *Session) (map[string]any, error)

// Node describes one screen within a menu tree.
type Node struct {
	ID string `json:"id" yaml:"id"`

	// Title is an optional first line shown above the body.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Body is the rendering template. Placeholders of the form
	// {{key}} are filled from the session's ContextData.
	Body string `json:"body" yaml:"body"`

	// Transitions maps an input token to a target node id, or to
	// TargetBack. A terminal node has no transitions.
	Transitions map[string]string `json:"transitions,omitempty" yaml:"transitions,omitempty"`

	// Capture, when set, stores the token that advances past this
	// node into ContextData under the given key, so later screens and
	// hooks can see which sub-option the caller chose.
	Capture string `json:"capture,omitempty" yaml:"capture,omitempty"`

	// Terminal marks a screen whose only outcome is ending the
	// dialog.
	Terminal bool `json:"terminal,omitempty" yaml:"terminal,omitempty"`

	// Hook, when set, runs after transitioning into this node and
	// may patch the session's ContextData with live domain data.
	Hook ActionHook `json:"-" yaml:"-"`

	// Notify is an optional notification template dispatched
	// fire-and-forget when this terminal node is reached. Rendered
	// against ContextData like Body.
	Notify string `json:"notify,omitempty" yaml:"notify,omitempty"`
}

// Tree is the static graph of screens for one business domain,
// selected by dialed service code. Trees are read-only after startup.
type Tree struct {
	// Name identifies the tree in logs and metrics.
	Name string

	// Root is the id of the entry node.
	Root string

	Nodes map[string]*Node
}

// Node returns the node with the given id, or nil.
func (t *Tree) Node(id string) *Node {
	return t.Nodes[id]
}
