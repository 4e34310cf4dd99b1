package menus

import (
	"context"
	"fmt"
	"sync/atomic"
)

// SampleProviders returns in-memory implementations of every domain
// service, with fixed plausible data. They back the local dial
// simulator and the menu tests; production deployments wire the real
// platform services instead.
func SampleProviders() Providers {
	return Providers{
		Wildlife: &sampleWildlife{},
		Carbon:   &sampleCarbon{},
		Chief:    &sampleChief{},
		School:   &sampleSchool{},
		Market:   &sampleMarket{},
	}
}

var refCounter atomic.Int64

func nextRef(prefix string) string {
	return fmt.Sprintf("%s-%04d", prefix, refCounter.Add(1))
}

type sampleWildlife struct{}

func (s *sampleWildlife) TrackingSummary(ctx context.Context) (TrackingSummary, error) {
	return TrackingSummary{Collared: 48, ActiveNow: 31, NearFences: 3}, nil
}

func (s *sampleWildlife) HabitatStats(ctx context.Context) (HabitatStats, error) {
	return HabitatStats{ProtectedHectares: 12400, TreesPlanted: 85210, SightingsToday: 17}, nil
}

func (s *sampleWildlife) ReportSighting(ctx context.Context, caller, species string) (string, error) {
	return nextRef("WS"), nil
}

type sampleCarbon struct{}

func (s *sampleCarbon) Account(ctx context.Context, caller string) (CarbonAccount, error) {
	return CarbonAccount{Credits: 12, PendingKES: 1800, TreesVerified: 230}, nil
}

func (s *sampleCarbon) PricePerCredit(ctx context.Context) (int, error) {
	return 650, nil
}

func (s *sampleCarbon) Sell(ctx context.Context, caller string, credits int) (string, error) {
	return nextRef("CS"), nil
}

type sampleChief struct{}

func (s *sampleChief) LatestAnnouncement(ctx context.Context) (string, error) {
	return "Baraza at the chief's camp this Friday 10am. All welcome.", nil
}

func (s *sampleChief) GrazingForecast(ctx context.Context) (GrazingForecast, error) {
	return GrazingForecast{
		Zone:      "North B",
		Condition: "fair",
		Advice:    "Move herds east of the river by Thursday.",
	}, nil
}

func (s *sampleChief) BookDispute(ctx context.Context, caller, day string) (string, error) {
	return nextRef("DH"), nil
}

type sampleSchool struct{}

func (s *sampleSchool) Catalog(ctx context.Context) ([]Course, error) {
	return []Course{
		{Code: "PY101", Title: "Intro to Python"},
		{Code: "WEB01", Title: "Web basics"},
		{Code: "DAT01", Title: "Data for farmers"},
	}, nil
}

func (s *sampleSchool) Enroll(ctx context.Context, caller, courseCode string) (string, error) {
	return nextRef("EN"), nil
}

type sampleMarket struct{}

func (s *sampleMarket) TopListings(ctx context.Context, category string) ([]Listing, error) {
	return []Listing{
		{Item: "2 goats", PriceKES: 9000, Seller: "Naserian"},
		{Item: "Maize 90kg", PriceKES: 3200, Seller: "Kiptoo"},
	}, nil
}

func (s *sampleMarket) PostListing(ctx context.Context, caller, category string) (string, error) {
	return nextRef("MK"), nil
}
