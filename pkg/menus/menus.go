// Package menus holds the production menu trees: the static screen
// graphs for each business domain and the narrow provider interfaces
// their screens query. The state machine that interprets these trees
// lives in internal/engine; nothing here branches on session state.
package menus

import (
	"github.com/savannahworks/uliza/internal/engine"
)

// Dialed short codes, one per business domain.
const (
	CodeWildlife = "*384*10#"
	CodeCarbon   = "*384*11#"
	CodeChief    = "*384*12#"
	CodeSchool   = "*384*13#"
	CodeMarket   = "*384*14#"
)

// Providers bundles the domain services behind the menu screens.
// A nil provider leaves its tree's hooks degraded (the resolver
// renders the screen without live data), which keeps navigation
// working when one business integration is down.
type Providers struct {
	Wildlife WildlifeService
	Carbon   CarbonService
	Chief    ChiefService
	School   SchoolService
	Market   MarketService
}

// NewRegistry builds the full production registry: five domain trees
// plus the generic fallback answering unconfigured codes.
func NewRegistry(p Providers) *engine.Registry {
	r := engine.NewRegistry(FallbackTree())
	r.Register(CodeWildlife, WildlifeTree(p.Wildlife))
	r.Register(CodeCarbon, CarbonTree(p.Carbon))
	r.Register(CodeChief, ChiefTree(p.Chief))
	r.Register(CodeSchool, SchoolTree(p.School))
	r.Register(CodeMarket, MarketTree(p.Market))
	return r
}
