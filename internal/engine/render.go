package engine

import (
	"fmt"
	"strings"

	"github.com/savannahworks/uliza/pkg/domain"
)

// DefaultMaxScreenLen is the gateway's single-screen payload cap.
const DefaultMaxScreenLen = 182

// Renderer formats a menu node into the bounded text payload required
// by the gateway protocol. The truncation policy is hard truncation
// with an ellipsis, applied consistently across all trees.
type Renderer struct {
	maxLen int
}

// NewRenderer creates a renderer with the given screen cap. A zero or
// negative cap falls back to DefaultMaxScreenLen.
func NewRenderer(maxLen int) *Renderer {
	if maxLen <= 0 {
		maxLen = DefaultMaxScreenLen
	}
	return &Renderer{maxLen: maxLen}
}

// Render produces the screen text for a node: optional notice line,
// optional title, then the body template interpolated against the
// session's ContextData.
func (r *Renderer) Render(node *domain.Node, sess *domain.Session, notice string) string {
	var b strings.Builder
	if notice != "" {
		b.WriteString(notice)
		b.WriteString("\n")
	}
	if node.Title != "" {
		b.WriteString(node.Title)
		b.WriteString("\n")
	}
	b.WriteString(Interpolate(node.Body, sess.ContextData))
	return r.truncate(b.String())
}

// RenderText bounds an already-built message (error screens, notices).
func (r *Renderer) RenderText(text string) string {
	return r.truncate(text)
}

func (r *Renderer) truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= r.maxLen {
		return text
	}
	return string(runes[:r.maxLen-1]) + "…"
}

// Interpolate fills {{key}} placeholders from the context bag. Unknown
// keys render as empty strings so a missing hook value degrades to a
// blank field instead of leaking template syntax to the caller.
func Interpolate(tmpl string, data map[string]any) string {
	if !strings.Contains(tmpl, "{{") {
		return tmpl
	}
	var b strings.Builder
	rest := tmpl
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			b.WriteString(rest)
			return b.String()
		}
		close := strings.Index(rest[open:], "}}")
		if close < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:open])
		key := strings.TrimSpace(rest[open+2 : open+close])
		if v, ok := data[key]; ok && v != nil {
			b.WriteString(fmt.Sprintf("%v", v))
		}
		rest = rest[open+close+2:]
	}
}
