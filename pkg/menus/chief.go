package menus

import (
	"context"
	"fmt"

	"github.com/savannahworks/uliza/pkg/domain"
)

// GrazingForecast advises herders on pasture conditions.
type GrazingForecast struct {
	Zone      string
	Condition string
	Advice    string
}

// ChiefService is the governance/extension backend for the chief tree.
type ChiefService interface {
	LatestAnnouncement(ctx context.Context) (string, error)
	GrazingForecast(ctx context.Context) (GrazingForecast, error)
	BookDispute(ctx context.Context, caller, day string) (ref string, err error)
}

var dayByToken = map[string]string{
	"1": "Tuesday",
	"2": "Thursday",
	"3": "Saturday",
}

// ChiefTree builds the chief/governance services menu.
func ChiefTree(svc ChiefService) *domain.Tree {
	return &domain.Tree{
		Name: "chief",
		Root: "home",
		Nodes: map[string]*domain.Node{
			"home": {
				ID:    "home",
				Title: "Chief Services",
				Body:  "1. Announcements\n2. Grazing forecast\n3. Book dispute hearing\n0. Exit",
				Transitions: map[string]string{
					"1": "announcements",
					"2": "grazing",
					"3": "dispute",
					"0": "bye",
				},
			},
			"announcements": {
				ID:   "announcements",
				Body: "{{announcement}}\n0. Back",
				Transitions: map[string]string{
					"0": domain.TargetBack,
				},
				Hook: announcementHook(svc),
			},
			"grazing": {
				ID:   "grazing",
				Body: "Zone {{zone}}: {{condition}}.\n{{advice}}\n0. Back",
				Transitions: map[string]string{
					"0": domain.TargetBack,
				},
				Hook: grazingHook(svc),
			},
			"dispute": {
				ID:      "dispute",
				Body:    "Hearing day:\n1. Tuesday\n2. Thursday\n3. Saturday\n0. Back",
				Capture: "day_choice",
				Transitions: map[string]string{
					"1": "dispute_confirm",
					"2": "dispute_confirm",
					"3": "dispute_confirm",
					"0": domain.TargetBack,
				},
			},
			"dispute_confirm": {
				ID:   "dispute_confirm",
				Body: "Book a hearing on {{hearing_day}} at the chief's camp?\n1. Confirm\n0. Back",
				Hook: hearingDayHook,
				Transitions: map[string]string{
					"1": "dispute_done",
					"0": domain.TargetBack,
				},
			},
			"dispute_done": {
				ID:       "dispute_done",
				Body:     "Hearing {{hearing_ref}} booked for {{hearing_day}}. Arrive by 9am with your ID.",
				Terminal: true,
				Hook:     disputeHook(svc),
				Notify:   "Uliza Chief: hearing {{hearing_ref}} booked for {{hearing_day}}. Bring your national ID.",
			},
			"bye": {
				ID:       "bye",
				Body:     "Asante. Office ya chief iko hapa kukusaidia.",
				Terminal: true,
			},
		},
	}
}

func announcementHook(svc ChiefService) domain.ActionHook {
	return func(ctx context.Context, s *domain.Session) (map[string]any, error) {
		if svc == nil {
			return nil, fmt.Errorf("chief service not configured")
		}
		msg, err := svc.LatestAnnouncement(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"announcement": msg}, nil
	}
}

func grazingHook(svc ChiefService) domain.ActionHook {
	return func(ctx context.Context, s *domain.Session) (map[string]any, error) {
		if svc == nil {
			return nil, fmt.Errorf("chief service not configured")
		}
		f, err := svc.GrazingForecast(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"zone":      f.Zone,
			"condition": f.Condition,
			"advice":    f.Advice,
		}, nil
	}
}

func hearingDayHook(ctx context.Context, s *domain.Session) (map[string]any, error) {
	choice, _ := s.ContextData["day_choice"].(string)
	day, ok := dayByToken[choice]
	if !ok {
		day = "Tuesday"
	}
	return map[string]any{"hearing_day": day}, nil
}

func disputeHook(svc ChiefService) domain.ActionHook {
	return func(ctx context.Context, s *domain.Session) (map[string]any, error) {
		if svc == nil {
			return nil, fmt.Errorf("chief service not configured")
		}
		day, _ := s.ContextData["hearing_day"].(string)
		ref, err := svc.BookDispute(ctx, s.CallerID, day)
		if err != nil {
			return nil, err
		}
		return map[string]any{"hearing_ref": ref}, nil
	}
}
