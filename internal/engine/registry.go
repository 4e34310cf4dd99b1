package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/savannahworks/uliza/pkg/domain"
)

// Registry maps dialed service codes to menu trees. Registration is
// static: trees are added before Validate and never mutated afterwards,
// so Resolve is safe for concurrent use without locking.
type Registry struct {
	trees    map[string]*domain.Tree
	fallback *domain.Tree
}

// NewRegistry creates a registry. The fallback tree answers any service
// code with no registered tree, because gateways may probe unconfigured
// codes.
func NewRegistry(fallback *domain.Tree) *Registry {
	return &Registry{
		trees:    make(map[string]*domain.Tree),
		fallback: fallback,
	}
}

// Register binds a service code to a tree. Call before Validate.
func (r *Registry) Register(serviceCode string, tree *domain.Tree) {
	r.trees[normalizeCode(serviceCode)] = tree
}

// Resolve returns the tree for a dialed code. known reports whether the
// code was registered; an unknown code yields the fallback tree.
func (r *Registry) Resolve(serviceCode string) (tree *domain.Tree, known bool) {
	if t, ok := r.trees[normalizeCode(serviceCode)]; ok {
		return t, true
	}
	return r.fallback, false
}

// ServiceCodes returns the registered codes in sorted order.
func (r *Registry) ServiceCodes() []string {
	codes := make([]string, 0, len(r.trees))
	for code := range r.trees {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Validate checks every registered tree (and the fallback) for
// configuration errors: a missing root, a transition pointing at a
// node that does not exist, or a terminal node that still declares
// transitions. Any finding is fatal at process startup, never at
// request time.
func (r *Registry) Validate() error {
	if r.fallback == nil {
		return fmt.Errorf("registry: fallback tree is required")
	}

	seen := map[*domain.Tree]bool{}
	validate := func(t *domain.Tree) error {
		if seen[t] {
			return nil
		}
		seen[t] = true
		return validateTree(t)
	}

	if err := validate(r.fallback); err != nil {
		return err
	}
	for _, code := range r.ServiceCodes() {
		if err := validate(r.trees[code]); err != nil {
			return fmt.Errorf("service code %s: %w", code, err)
		}
	}
	return nil
}

func validateTree(t *domain.Tree) error {
	if t.Name == "" {
		return fmt.Errorf("tree has no name")
	}
	if t.Node(t.Root) == nil {
		return fmt.Errorf("tree %s: root node %q does not exist", t.Name, t.Root)
	}
	for id, node := range t.Nodes {
		if id != node.ID {
			return fmt.Errorf("tree %s: node keyed %q has id %q", t.Name, id, node.ID)
		}
		if node.Terminal && len(node.Transitions) > 0 {
			return fmt.Errorf("tree %s: terminal node %q declares transitions", t.Name, id)
		}
		for tok, target := range node.Transitions {
			if target == domain.TargetBack {
				continue
			}
			if t.Node(target) == nil {
				return fmt.Errorf("tree %s: node %q transition %q targets unknown node %q", t.Name, id, tok, target)
			}
		}
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.TrimSpace(code)
}
