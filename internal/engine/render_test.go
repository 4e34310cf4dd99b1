package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/savannahworks/uliza/pkg/domain"
)

func renderSession(data map[string]any) *domain.Session {
	s := domain.NewSession("s-1", "+254712345678", "*999*1#", "home", time.Now(), time.Minute)
	s.MergeContext(data)
	return s
}

func TestRender_TitleBodyAndNotice(t *testing.T) {
	r := NewRenderer(DefaultMaxScreenLen)
	node := &domain.Node{
		ID:    "home",
		Title: "Orchard",
		Body:  "1. Fruits\n0. Exit",
	}

	got := r.Render(node, renderSession(nil), "")
	assert.Equal(t, "Orchard\n1. Fruits\n0. Exit", got)

	got = r.Render(node, renderSession(nil), MsgInvalidChoice)
	assert.Equal(t, MsgInvalidChoice+"\nOrchard\n1. Fruits\n0. Exit", got)
}

func TestRender_InterpolatesContext(t *testing.T) {
	r := NewRenderer(DefaultMaxScreenLen)
	node := &domain.Node{
		ID:   "account",
		Body: "Credits: {{credits}}\nPending: KES {{pending}}",
	}

	got := r.Render(node, renderSession(map[string]any{"credits": 12, "pending": 1800}), "")
	assert.Equal(t, "Credits: 12\nPending: KES 1800", got)
}

func TestRender_MissingKeyRendersBlank(t *testing.T) {
	r := NewRenderer(DefaultMaxScreenLen)
	node := &domain.Node{ID: "n", Body: "Ref: {{ref}}."}

	got := r.Render(node, renderSession(nil), "")
	assert.Equal(t, "Ref: .", got)
}

func TestRender_TruncatesAtCap(t *testing.T) {
	r := NewRenderer(20)
	node := &domain.Node{ID: "n", Body: strings.Repeat("a", 50)}

	got := r.Render(node, renderSession(nil), "")
	assert.Equal(t, 20, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestRender_TruncationIsRuneSafe(t *testing.T) {
	r := NewRenderer(10)
	text := strings.Repeat("é", 30)

	got := r.RenderText(text)
	assert.Equal(t, 10, len([]rune(got)))
	assert.Equal(t, strings.Repeat("é", 9)+"…", got)
}

func TestInterpolate(t *testing.T) {
	data := map[string]any{"name": "Wanjiru", "count": 3}

	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{"no placeholders", "plain text", "plain text"},
		{"single", "Hello {{name}}", "Hello Wanjiru"},
		{"multiple", "{{name}}: {{count}}", "Wanjiru: 3"},
		{"spaced key", "Hi {{ name }}", "Hi Wanjiru"},
		{"unknown key", "Hi {{missing}}!", "Hi !"},
		{"unclosed stays literal", "Hi {{name", "Hi {{name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Interpolate(tt.tmpl, data))
		})
	}
}
