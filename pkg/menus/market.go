package menus

import (
	"context"
	"fmt"
	"strings"

	"github.com/savannahworks/uliza/pkg/domain"
)

// Listing is one marketplace offer.
type Listing struct {
	Item     string
	PriceKES int
	Seller   string
}

// MarketService is the marketplace backend for the market tree.
type MarketService interface {
	TopListings(ctx context.Context, category string) ([]Listing, error)
	PostListing(ctx context.Context, caller, category string) (ref string, err error)
}

var categoryByToken = map[string]string{
	"1": "livestock",
	"2": "produce",
	"3": "crafts",
}

// MarketTree builds the marketplace menu.
func MarketTree(svc MarketService) *domain.Tree {
	return &domain.Tree{
		Name: "market",
		Root: "home",
		Nodes: map[string]*domain.Node{
			"home": {
				ID:    "home",
				Title: "Marketplace",
				Body:  "1. Browse offers\n2. Post an offer\n0. Exit",
				Transitions: map[string]string{
					"1": "browse",
					"2": "post",
					"0": "bye",
				},
			},
			"browse": {
				ID:      "browse",
				Body:    "Category:\n1. Livestock\n2. Produce\n3. Crafts\n0. Back",
				Capture: "category_choice",
				Transitions: map[string]string{
					"1": "listings",
					"2": "listings",
					"3": "listings",
					"0": domain.TargetBack,
				},
			},
			"listings": {
				ID:   "listings",
				Body: "{{listings}}\n0. Back",
				Transitions: map[string]string{
					"0": domain.TargetBack,
				},
				Hook: listingsHook(svc),
			},
			"post": {
				ID:      "post",
				Body:    "Post under:\n1. Livestock\n2. Produce\n3. Crafts\n0. Back",
				Capture: "category_choice",
				Transitions: map[string]string{
					"1": "post_done",
					"2": "post_done",
					"3": "post_done",
					"0": domain.TargetBack,
				},
			},
			"post_done": {
				ID:       "post_done",
				Body:     "Offer {{listing_ref}} created under {{category}}. An agent will call you to finish the details.",
				Terminal: true,
				Hook:     postHook(svc),
				Notify:   "Uliza Market: offer {{listing_ref}} ({{category}}) received. Reply with a photo on WhatsApp to boost it.",
			},
			"bye": {
				ID:       "bye",
				Body:     "Asante. Biashara njema!",
				Terminal: true,
			},
		},
	}
}

func listingsHook(svc MarketService) domain.ActionHook {
	return func(ctx context.Context, s *domain.Session) (map[string]any, error) {
		if svc == nil {
			return nil, fmt.Errorf("market service not configured")
		}
		category := categoryFrom(s)
		offers, err := svc.TopListings(ctx, category)
		if err != nil {
			return nil, err
		}
		lines := make([]string, 0, len(offers))
		for i, o := range offers {
			lines = append(lines, fmt.Sprintf("%d. %s KES %d (%s)", i+1, o.Item, o.PriceKES, o.Seller))
		}
		if len(lines) == 0 {
			lines = append(lines, "No offers yet in "+category+".")
		}
		return map[string]any{
			"listings": strings.Join(lines, "\n"),
			"category": category,
		}, nil
	}
}

func postHook(svc MarketService) domain.ActionHook {
	return func(ctx context.Context, s *domain.Session) (map[string]any, error) {
		if svc == nil {
			return nil, fmt.Errorf("market service not configured")
		}
		category := categoryFrom(s)
		ref, err := svc.PostListing(ctx, s.CallerID, category)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"listing_ref": ref,
			"category":    category,
		}, nil
	}
}

func categoryFrom(s *domain.Session) string {
	choice, _ := s.ContextData["category_choice"].(string)
	if category, ok := categoryByToken[choice]; ok {
		return category
	}
	return "produce"
}
