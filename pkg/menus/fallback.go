package menus

import "github.com/savannahworks/uliza/pkg/domain"

// FallbackTree is the generic top-level menu served for any dialed
// code with no registered tree. Gateways probe unconfigured codes;
// answering with a directory beats failing the request.
func FallbackTree() *domain.Tree {
	return &domain.Tree{
		Name: "fallback",
		Root: "home",
		Nodes: map[string]*domain.Node{
			"home": {
				ID:    "home",
				Title: "Karibu Uliza",
				Body:  "1. Services\n0. Exit",
				Transitions: map[string]string{
					"1": "directory",
					"0": "bye",
				},
			},
			"directory": {
				ID:   "directory",
				Body: "Dial:\n*384*10# Wildlife\n*384*11# Carbon credits\n*384*12# Chief services\n*384*13# Code school\n*384*14# Marketplace\n0. Back",
				Transitions: map[string]string{
					"0": domain.TargetBack,
				},
			},
			"bye": {
				ID:       "bye",
				Body:     "Asante. Goodbye.",
				Terminal: true,
			},
		},
	}
}
