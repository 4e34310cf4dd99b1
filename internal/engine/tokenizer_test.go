package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty input", "", nil},
		{"single token", "1", []string{"1"}},
		{"accumulated path", "1*2*0", []string{"1", "2", "0"}},
		{"whitespace trimmed", " 1 * 2 ", []string{"1", "2"}},
		{"trailing delimiter yields empty token", "1*", []string{"1", ""}},
		{"repeated delimiter yields empty token", "1**2", []string{"1", "", "2"}},
		{"multi-digit token", "42*7", []string{"42", "7"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}

func TestCurrent(t *testing.T) {
	tok, ok := Current([]string{"1", "2", "3"})
	assert.True(t, ok)
	assert.Equal(t, "3", tok)

	_, ok = Current(nil)
	assert.False(t, ok)
}
