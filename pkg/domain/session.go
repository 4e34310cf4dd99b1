package domain

import "time"

// Session is the unit of conversation state for one dialog attempt.
// All cross-request state lives here; the gateway protocol itself is
// stateless between keypresses.
type Session struct {
	// SessionID is the opaque identifier issued by the gateway.
	SessionID string `json:"session_id"`

	// CallerID is the caller's phone number in canonical
	// international form (e.g. "+254712345678").
	CallerID string `json:"caller_id"`

	// ServiceCode is the dialed short code that selected the menu
	// tree. Immutable for the session's lifetime.
	ServiceCode string `json:"service_code"`

	// CurrentNode is the id of the menu node the caller is
	// positioned at.
	CurrentNode string `json:"current_node"`

	// MenuStack holds the ids of ancestor nodes for "back"
	// navigation. It never contains CurrentNode as its top element.
	MenuStack []string `json:"menu_stack"`

	// ContextData is the free-form bag accumulated across screens.
	// Navigation state never lives here.
	ContextData map[string]any `json:"context_data"`

	// Steps counts the input tokens this session has consumed.
	// It lets the engine tell a gateway replay (same accumulated
	// string redelivered) from a genuine new keypress.
	Steps int `json:"steps"`

	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt slides forward on every successful step.
	ExpiresAt time.Time `json:"expires_at"`

	Active bool `json:"active"`

	// Version guards concurrent writers. Incremented by the store on
	// every successful Save.
	Version int64 `json:"version"`
}

// NewSession creates a fresh session positioned at the tree root.
func NewSession(sessionID, callerID, serviceCode, rootNode string, now time.Time, ttl time.Duration) *Session {
	return &Session{
		SessionID:   sessionID,
		CallerID:    callerID,
		ServiceCode: serviceCode,
		CurrentNode: rootNode,
		MenuStack:   []string{},
		ContextData: make(map[string]any),
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
		Active:      true,
	}
}

// Expired reports whether the session's sliding expiry has passed.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Push records the current node as an ancestor and moves to next.
func (s *Session) Push(next string) {
	s.MenuStack = append(s.MenuStack, s.CurrentNode)
	s.CurrentNode = next
}

// Pop moves back to the nearest ancestor. It reports false (and leaves
// the session untouched) when the stack is empty.
func (s *Session) Pop() bool {
	if len(s.MenuStack) == 0 {
		return false
	}
	s.CurrentNode = s.MenuStack[len(s.MenuStack)-1]
	s.MenuStack = s.MenuStack[:len(s.MenuStack)-1]
	return true
}

// Depth returns the menu stack depth.
func (s *Session) Depth() int {
	return len(s.MenuStack)
}

// Touch refreshes the sliding expiry.
func (s *Session) Touch(now time.Time, ttl time.Duration) {
	s.ExpiresAt = now.Add(ttl)
}

// MergeContext applies a hook's context patch.
func (s *Session) MergeContext(patch map[string]any) {
	if s.ContextData == nil {
		s.ContextData = make(map[string]any)
	}
	for k, v := range patch {
		s.ContextData[k] = v
	}
}

// Clone returns a deep copy safe for independent mutation.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	next := *s
	next.MenuStack = make([]string, len(s.MenuStack))
	copy(next.MenuStack, s.MenuStack)
	next.ContextData = make(map[string]any, len(s.ContextData))
	for k, v := range s.ContextData {
		next.ContextData[k] = v
	}
	return &next
}
