package menus

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/savannahworks/uliza/pkg/domain"
)

// CarbonAccount is a farmer's standing in the carbon-credit ledger.
type CarbonAccount struct {
	Credits       int
	PendingKES    int
	TreesVerified int
}

// CarbonService is the carbon-credit ledger behind the carbon tree.
type CarbonService interface {
	Account(ctx context.Context, caller string) (CarbonAccount, error)
	PricePerCredit(ctx context.Context) (kes int, err error)
	Sell(ctx context.Context, caller string, credits int) (ref string, err error)
}

var creditsByToken = map[string]int{
	"1": 1,
	"2": 5,
	"3": 10,
}

// sellParams is decoded out of the session's context bag once the
// caller reaches the confirmation screen.
type sellParams struct {
	Credits int `mapstructure:"sell_credits"`
	Price   int `mapstructure:"price_kes"`
}

// CarbonTree builds the carbon-credit farming menu.
func CarbonTree(svc CarbonService) *domain.Tree {
	return &domain.Tree{
		Name: "carbon",
		Root: "home",
		Nodes: map[string]*domain.Node{
			"home": {
				ID:    "home",
				Title: "Carbon Credits",
				Body:  "1. My account\n2. Today's price\n3. Sell credits\n0. Exit",
				Transitions: map[string]string{
					"1": "account",
					"2": "price",
					"3": "sell",
					"0": "bye",
				},
			},
			"account": {
				ID:   "account",
				Body: "Credits: {{credits}}\nPending payout: KES {{pending_kes}}\nVerified trees: {{trees_verified}}\n0. Back",
				Transitions: map[string]string{
					"0": domain.TargetBack,
				},
				Hook: accountHook(svc),
			},
			"price": {
				ID:   "price",
				Body: "Today's price: KES {{price_kes}} per credit.\n0. Back",
				Transitions: map[string]string{
					"0": domain.TargetBack,
				},
				Hook: priceHook(svc),
			},
			"sell": {
				ID:      "sell",
				Body:    "Sell how many credits?\n1. One\n2. Five\n3. Ten\n0. Back",
				Capture: "sell_choice",
				Transitions: map[string]string{
					"1": "sell_confirm",
					"2": "sell_confirm",
					"3": "sell_confirm",
					"0": domain.TargetBack,
				},
			},
			"sell_confirm": {
				ID:   "sell_confirm",
				Body: "Sell {{sell_credits}} credit(s) at KES {{price_kes}} each for KES {{sell_total}}?\n1. Confirm\n0. Back",
				Hook: sellQuoteHook(svc),
				Transitions: map[string]string{
					"1": "sell_done",
					"0": domain.TargetBack,
				},
			},
			"sell_done": {
				ID:       "sell_done",
				Body:     "Sale {{sale_ref}} accepted: {{sell_credits}} credit(s) for KES {{sell_total}}. Payout via mobile money within 48h.",
				Terminal: true,
				Hook:     sellHook(svc),
				Notify:   "Uliza Carbon: sale {{sale_ref}} of {{sell_credits}} credit(s) confirmed. KES {{sell_total}} is on its way.",
			},
			"bye": {
				ID:       "bye",
				Body:     "Asante for farming carbon.",
				Terminal: true,
			},
		},
	}
}

func accountHook(svc CarbonService) domain.ActionHook {
	return func(ctx context.Context, s *domain.Session) (map[string]any, error) {
		if svc == nil {
			return nil, fmt.Errorf("carbon service not configured")
		}
		acct, err := svc.Account(ctx, s.CallerID)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"credits":        acct.Credits,
			"pending_kes":    acct.PendingKES,
			"trees_verified": acct.TreesVerified,
		}, nil
	}
}

func priceHook(svc CarbonService) domain.ActionHook {
	return func(ctx context.Context, s *domain.Session) (map[string]any, error) {
		if svc == nil {
			return nil, fmt.Errorf("carbon service not configured")
		}
		price, err := svc.PricePerCredit(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"price_kes": price}, nil
	}
}

// sellQuoteHook turns the captured quantity option into a priced quote.
func sellQuoteHook(svc CarbonService) domain.ActionHook {
	return func(ctx context.Context, s *domain.Session) (map[string]any, error) {
		if svc == nil {
			return nil, fmt.Errorf("carbon service not configured")
		}
		choice, _ := s.ContextData["sell_choice"].(string)
		credits, ok := creditsByToken[choice]
		if !ok {
			credits = 1
		}
		price, err := svc.PricePerCredit(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"sell_credits": credits,
			"price_kes":    price,
			"sell_total":   credits * price,
		}, nil
	}
}

func sellHook(svc CarbonService) domain.ActionHook {
	return func(ctx context.Context, s *domain.Session) (map[string]any, error) {
		if svc == nil {
			return nil, fmt.Errorf("carbon service not configured")
		}
		var params sellParams
		if err := mapstructure.WeakDecode(s.ContextData, &params); err != nil {
			return nil, fmt.Errorf("decode sale parameters: %w", err)
		}
		if params.Credits <= 0 {
			return nil, fmt.Errorf("no quoted quantity in session")
		}
		ref, err := svc.Sell(ctx, s.CallerID, params.Credits)
		if err != nil {
			return nil, err
		}
		return map[string]any{"sale_ref": ref}, nil
	}
}
