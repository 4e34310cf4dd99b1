package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savannahworks/uliza/pkg/domain"
)

func validTree(name string) *domain.Tree {
	return &domain.Tree{
		Name: name,
		Root: "home",
		Nodes: map[string]*domain.Node{
			"home": {
				ID:          "home",
				Body:        "1. Done\n0. Back",
				Transitions: map[string]string{"1": "done", "0": domain.TargetBack},
			},
			"done": {ID: "done", Body: "Bye.", Terminal: true},
		},
	}
}

func TestRegistry_ResolveAndFallback(t *testing.T) {
	reg := NewRegistry(validTree("fallback"))
	reg.Register("*384*10#", validTree("wildlife"))
	reg.Register(" *384*11# ", validTree("carbon"))

	tree, known := reg.Resolve("*384*10#")
	assert.True(t, known)
	assert.Equal(t, "wildlife", tree.Name)

	// Registration and lookup both trim whitespace.
	tree, known = reg.Resolve("*384*11#")
	assert.True(t, known)
	assert.Equal(t, "carbon", tree.Name)

	tree, known = reg.Resolve("*555#")
	assert.False(t, known)
	assert.Equal(t, "fallback", tree.Name)

	assert.Equal(t, []string{"*384*10#", "*384*11#"}, reg.ServiceCodes())
}

func TestRegistry_Validate(t *testing.T) {
	t.Run("valid registry passes", func(t *testing.T) {
		reg := NewRegistry(validTree("fallback"))
		reg.Register("*1#", validTree("one"))
		require.NoError(t, reg.Validate())
	})

	t.Run("missing fallback", func(t *testing.T) {
		reg := NewRegistry(nil)
		assert.ErrorContains(t, reg.Validate(), "fallback")
	})

	t.Run("missing root", func(t *testing.T) {
		reg := NewRegistry(validTree("fallback"))
		reg.Register("*1#", &domain.Tree{Name: "broken", Root: "nope", Nodes: map[string]*domain.Node{}})
		assert.ErrorContains(t, reg.Validate(), "root")
	})

	t.Run("dangling transition", func(t *testing.T) {
		tree := validTree("broken")
		tree.Nodes["home"].Transitions["2"] = "ghost"
		reg := NewRegistry(validTree("fallback"))
		reg.Register("*1#", tree)
		assert.ErrorContains(t, reg.Validate(), "ghost")
	})

	t.Run("terminal with transitions", func(t *testing.T) {
		tree := validTree("broken")
		tree.Nodes["done"].Transitions = map[string]string{"1": "home"}
		reg := NewRegistry(validTree("fallback"))
		reg.Register("*1#", tree)
		assert.ErrorContains(t, reg.Validate(), "terminal")
	})

	t.Run("mismatched node key", func(t *testing.T) {
		tree := validTree("broken")
		tree.Nodes["alias"] = &domain.Node{ID: "other", Body: "x", Terminal: true}
		reg := NewRegistry(validTree("fallback"))
		reg.Register("*1#", tree)
		assert.Error(t, reg.Validate())
	})
}
