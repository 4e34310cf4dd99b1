package menus

import (
	"context"
	"fmt"
	"strings"

	"github.com/savannahworks/uliza/pkg/domain"
)

// TrackingSummary is a live snapshot of collared animal movement.
type TrackingSummary struct {
	Collared   int
	ActiveNow  int
	NearFences int
}

// HabitatStats aggregates conservation impact numbers for a region.
type HabitatStats struct {
	ProtectedHectares int
	TreesPlanted      int
	SightingsToday    int
}

// WildlifeService is the conservation platform behind the wildlife
// tree's screens.
type WildlifeService interface {
	TrackingSummary(ctx context.Context) (TrackingSummary, error)
	HabitatStats(ctx context.Context) (HabitatStats, error)
	ReportSighting(ctx context.Context, caller, species string) (ref string, err error)
}

// WildlifeTree builds the wildlife tracking menu.
func WildlifeTree(svc WildlifeService) *domain.Tree {
	return &domain.Tree{
		Name: "wildlife",
		Root: "home",
		Nodes: map[string]*domain.Node{
			"home": {
				ID:    "home",
				Title: "Wildlife Tracking",
				Body:  "1. Real-time tracking\n2. Report a sighting\n3. Habitat stats\n0. Exit",
				Transitions: map[string]string{
					"1": "tracking",
					"2": "sighting",
					"3": "habitat",
					"0": "bye",
				},
			},
			"tracking": {
				ID:   "tracking",
				Body: "Collared: {{collared}}\nActive now: {{active_now}}\nNear fences: {{near_fences}}\n0. Back",
				Transitions: map[string]string{
					"0": domain.TargetBack,
				},
				Hook: trackingHook(svc),
			},
			"sighting": {
				ID:      "sighting",
				Body:    "Report sighting of:\n1. Elephant\n2. Lion\n3. Rhino\n4. Other\n0. Back",
				Capture: "species_choice",
				Transitions: map[string]string{
					"1": "sighting_confirm",
					"2": "sighting_confirm",
					"3": "sighting_confirm",
					"4": "sighting_confirm",
					"0": domain.TargetBack,
				},
			},
			"sighting_confirm": {
				ID:   "sighting_confirm",
				Body: "Report {{species}} sighting near your location?\n1. Confirm\n0. Back",
				Hook: speciesHook,
				Transitions: map[string]string{
					"1": "sighting_done",
					"0": domain.TargetBack,
				},
			},
			"sighting_done": {
				ID:       "sighting_done",
				Body:     "Asante! Sighting logged, ref {{sighting_ref}}. Rangers have been alerted.",
				Terminal: true,
				Hook:     sightingHook(svc),
				Notify:   "Uliza Wildlife: sighting {{sighting_ref}} ({{species}}) received. A ranger may call you.",
			},
			"habitat": {
				ID:   "habitat",
				Body: "Protected: {{protected_ha}} ha\nTrees planted: {{trees_planted}}\nSightings today: {{sightings_today}}\n0. Back",
				Transitions: map[string]string{
					"0": domain.TargetBack,
				},
				Hook: habitatHook(svc),
			},
			"bye": {
				ID:       "bye",
				Body:     "Asante for protecting wildlife.",
				Terminal: true,
			},
		},
	}
}

func trackingHook(svc WildlifeService) domain.ActionHook {
	return func(ctx context.Context, s *domain.Session) (map[string]any, error) {
		if svc == nil {
			return nil, fmt.Errorf("wildlife service not configured")
		}
		sum, err := svc.TrackingSummary(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"collared":    sum.Collared,
			"active_now":  sum.ActiveNow,
			"near_fences": sum.NearFences,
		}, nil
	}
}

func habitatHook(svc WildlifeService) domain.ActionHook {
	return func(ctx context.Context, s *domain.Session) (map[string]any, error) {
		if svc == nil {
			return nil, fmt.Errorf("wildlife service not configured")
		}
		stats, err := svc.HabitatStats(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"protected_ha":    stats.ProtectedHectares,
			"trees_planted":   stats.TreesPlanted,
			"sightings_today": stats.SightingsToday,
		}, nil
	}
}

var speciesByToken = map[string]string{
	"1": "elephant",
	"2": "lion",
	"3": "rhino",
	"4": "other wildlife",
}

// speciesHook resolves the captured sub-option into a species name for
// the confirmation screens.
func speciesHook(ctx context.Context, s *domain.Session) (map[string]any, error) {
	choice, _ := s.ContextData["species_choice"].(string)
	species, ok := speciesByToken[choice]
	if !ok {
		species = "unspecified"
	}
	return map[string]any{"species": species}, nil
}

func sightingHook(svc WildlifeService) domain.ActionHook {
	return func(ctx context.Context, s *domain.Session) (map[string]any, error) {
		if svc == nil {
			return nil, fmt.Errorf("wildlife service not configured")
		}
		species, _ := s.ContextData["species"].(string)
		if species == "" {
			species = "unspecified"
		}
		ref, err := svc.ReportSighting(ctx, s.CallerID, species)
		if err != nil {
			return nil, err
		}
		return map[string]any{"sighting_ref": strings.ToUpper(ref)}, nil
	}
}
