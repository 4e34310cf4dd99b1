package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSession_PushPopDepth(t *testing.T) {
	now := time.Now()
	s := NewSession("s-1", "+254712345678", "*384*10#", "home", now, time.Minute)

	assert.Equal(t, 0, s.Depth())
	assert.False(t, s.Pop(), "pop on an empty stack is a no-op")
	assert.Equal(t, "home", s.CurrentNode)

	s.Push("wildlife")
	s.Push("sighting")
	assert.Equal(t, "sighting", s.CurrentNode)
	assert.Equal(t, []string{"home", "wildlife"}, s.MenuStack)
	assert.Equal(t, 2, s.Depth())

	assert.True(t, s.Pop())
	assert.Equal(t, "wildlife", s.CurrentNode)
	assert.Equal(t, []string{"home"}, s.MenuStack)
}

func TestSession_ExpiryAndTouch(t *testing.T) {
	now := time.Now()
	s := NewSession("s-1", "+254712345678", "*384*10#", "home", now, time.Minute)

	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(2*time.Minute)))

	s.Touch(now.Add(2*time.Minute), time.Minute)
	assert.False(t, s.Expired(now.Add(2*time.Minute)))
}

func TestSession_MergeContext(t *testing.T) {
	s := &Session{}
	s.MergeContext(map[string]any{"a": 1})
	s.MergeContext(map[string]any{"a": 2, "b": "x"})

	assert.Equal(t, 2, s.ContextData["a"])
	assert.Equal(t, "x", s.ContextData["b"])
}

func TestSession_CloneIsIndependent(t *testing.T) {
	s := NewSession("s-1", "+254712345678", "*384*10#", "home", time.Now(), time.Minute)
	s.Push("wildlife")
	s.ContextData["county"] = "Laikipia"

	c := s.Clone()
	c.Push("sighting")
	c.ContextData["county"] = "Narok"

	assert.Equal(t, "wildlife", s.CurrentNode)
	assert.Equal(t, []string{"home"}, s.MenuStack)
	assert.Equal(t, "Laikipia", s.ContextData["county"])
}

func TestNormalizeMSISDN(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"+254712345678", "+254712345678"},
		{"0712345678", "+254712345678"},
		{"0112345678", "+254112345678"},
		{"254712345678", "+254712345678"},
		{"00254712345678", "+254712345678"},
		{" +254 712 345-678 ", "+254712345678"},
		{"+14155550123", "+14155550123"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeMSISDN(tt.raw), "raw=%q", tt.raw)
	}
}
