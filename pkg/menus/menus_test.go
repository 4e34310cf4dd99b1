package menus

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savannahworks/uliza/internal/engine"
	"github.com/savannahworks/uliza/pkg/adapters/memory"
)

func newMenuEngine(t *testing.T, p Providers) *engine.Engine {
	t.Helper()
	eng, err := engine.New(NewRegistry(p), memory.NewStore())
	require.NoError(t, err)
	return eng
}

func walk(t *testing.T, eng *engine.Engine, sessionID, code, text string) engine.Response {
	t.Helper()
	return eng.Handle(context.Background(), engine.Request{
		SessionID:   sessionID,
		CallerID:    "+254712345678",
		ServiceCode: code,
		Text:        text,
	})
}

func TestRegistry_AllTreesValidate(t *testing.T) {
	// Both fully wired and completely unwired providers must produce
	// structurally valid trees.
	require.NoError(t, NewRegistry(SampleProviders()).Validate())
	require.NoError(t, NewRegistry(Providers{}).Validate())
}

func TestWildlife_SightingFlow(t *testing.T) {
	eng := newMenuEngine(t, SampleProviders())

	resp := walk(t, eng, "w-1", CodeWildlife, "")
	assert.Contains(t, resp.Text, "Wildlife Tracking")

	resp = walk(t, eng, "w-1", CodeWildlife, "2")
	assert.Contains(t, resp.Text, "Elephant")

	resp = walk(t, eng, "w-1", CodeWildlife, "2*2")
	assert.Contains(t, resp.Text, "Report lion sighting")

	resp = walk(t, eng, "w-1", CodeWildlife, "2*2*1")
	assert.True(t, resp.EndSession)
	assert.Contains(t, resp.Text, "Sighting logged, ref WS-")
}

func TestWildlife_TrackingShowsLiveData(t *testing.T) {
	eng := newMenuEngine(t, SampleProviders())

	resp := walk(t, eng, "w-2", CodeWildlife, "1")
	assert.False(t, resp.EndSession)
	assert.Contains(t, resp.Text, "Collared: 48")
	assert.Contains(t, resp.Text, "Near fences: 3")
}

func TestWildlife_NilProviderDegrades(t *testing.T) {
	eng := newMenuEngine(t, Providers{})

	resp := walk(t, eng, "w-3", CodeWildlife, "1")
	assert.False(t, resp.EndSession)
	assert.Contains(t, resp.Text, engine.MsgDegraded)
}

func TestCarbon_SellFlowQuotesAndConfirms(t *testing.T) {
	eng := newMenuEngine(t, SampleProviders())

	resp := walk(t, eng, "c-1", CodeCarbon, "3")
	assert.Contains(t, resp.Text, "Sell how many credits?")

	resp = walk(t, eng, "c-1", CodeCarbon, "3*2")
	assert.Contains(t, resp.Text, "Sell 5 credit(s) at KES 650 each for KES 3250?")

	resp = walk(t, eng, "c-1", CodeCarbon, "3*2*1")
	assert.True(t, resp.EndSession)
	assert.Contains(t, resp.Text, "Sale CS-")
	assert.Contains(t, resp.Text, "5 credit(s) for KES 3250")
}

func TestCarbon_AccountScreen(t *testing.T) {
	eng := newMenuEngine(t, SampleProviders())

	resp := walk(t, eng, "c-2", CodeCarbon, "1")
	assert.Contains(t, resp.Text, "Credits: 12")
	assert.Contains(t, resp.Text, "Pending payout: KES 1800")
}

func TestCarbon_SellErrorKeepsDialogAlive(t *testing.T) {
	p := SampleProviders()
	p.Carbon = &failingCarbon{inner: p.Carbon}
	eng := newMenuEngine(t, p)

	resp := walk(t, eng, "c-3", CodeCarbon, "3*1*1")
	// The sale hook failed on the terminal screen: the dialog still
	// ends, with the degraded notice instead of a reference.
	assert.True(t, resp.EndSession)
	assert.NotContains(t, resp.Text, "{{")
}

func TestMarket_BrowseUsesCapturedCategory(t *testing.T) {
	eng := newMenuEngine(t, SampleProviders())

	resp := walk(t, eng, "m-1", CodeMarket, "1*1")
	assert.False(t, resp.EndSession)
	assert.Contains(t, resp.Text, "2 goats KES 9000 (Naserian)")
}

func TestMarket_PostFlow(t *testing.T) {
	eng := newMenuEngine(t, SampleProviders())

	resp := walk(t, eng, "m-2", CodeMarket, "2*3")
	assert.True(t, resp.EndSession)
	assert.Contains(t, resp.Text, "created under crafts")
}

func TestChief_GrazingForecast(t *testing.T) {
	eng := newMenuEngine(t, SampleProviders())

	resp := walk(t, eng, "ch-1", CodeChief, "2")
	assert.False(t, resp.EndSession)
	assert.Contains(t, resp.Text, "North B")
	assert.Contains(t, resp.Text, "Move herds east")
}

func TestSchool_EnrollFlow(t *testing.T) {
	eng := newMenuEngine(t, SampleProviders())

	resp := walk(t, eng, "s-1", CodeSchool, "1")
	assert.Contains(t, resp.Text, "PY101")

	resp = walk(t, eng, "s-1", CodeSchool, "2*1")
	assert.True(t, resp.EndSession)
	assert.Contains(t, resp.Text, "EN-")
}

func TestFallback_DirectoryListsCodes(t *testing.T) {
	eng := newMenuEngine(t, SampleProviders())

	resp := walk(t, eng, "f-1", "*555#", "1")
	assert.False(t, resp.EndSession)
	assert.Contains(t, resp.Text, CodeWildlife)
	assert.Contains(t, resp.Text, CodeMarket)
}

func TestSampleProviders_RefsAreUnique(t *testing.T) {
	p := SampleProviders()
	ctx := context.Background()

	a, err := p.Wildlife.ReportSighting(ctx, "+254712345678", "lion")
	require.NoError(t, err)
	b, err := p.Wildlife.ReportSighting(ctx, "+254712345678", "lion")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

// failingCarbon quotes normally but refuses the final sale.
type failingCarbon struct {
	inner CarbonService
	calls atomic.Int64
}

func (f *failingCarbon) Account(ctx context.Context, caller string) (CarbonAccount, error) {
	return f.inner.Account(ctx, caller)
}

func (f *failingCarbon) PricePerCredit(ctx context.Context) (int, error) {
	return f.inner.PricePerCredit(ctx)
}

func (f *failingCarbon) Sell(ctx context.Context, caller string, credits int) (string, error) {
	f.calls.Add(1)
	return "", fmt.Errorf("ledger unavailable")
}
