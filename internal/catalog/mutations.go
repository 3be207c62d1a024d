package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/growallgarden/server/internal/domain"
)

// titleCaser canonicalizes player-typed names to the catalog's title-case
// spelling, so lookups stay O(1) map hits.
var titleCaser = cases.Title(language.English)

// Mutation names referenced by game rules. The full table lives in Mutations;
// these constants exist for the rules that name specific mutations.
const (
	MutationWet      = "Wet"
	MutationChilled  = "Chilled"
	MutationFrozen   = "Frozen"
	MutationGolden   = "Golden"
	MutationRainbow  = "Rainbow"
	MutationSundried = "Sundried"
	MutationVerdant  = "Verdant"
	MutationPardisal = "Pardisal"
)

// Mutations is the catalog of price mutations. Multipliers compound
// multiplicatively when a crop carries several mutations.
var Mutations = []domain.Mutation{
	{Name: "Overgrown", Multiplier: 1, Trigger: "Random"},
	{Name: MutationWet, Multiplier: 2, Trigger: "Rain/Thunderstorm"},
	{Name: MutationChilled, Multiplier: 2, Trigger: "Frost"},
	{Name: "Chocolate", Multiplier: 2, Trigger: "Chocolate Rain"},
	{Name: "Moonlit", Multiplier: 2, Trigger: "Night"},
	{Name: "Windstruck", Multiplier: 2, Trigger: "Gale"},
	{Name: "Sandy", Multiplier: 3, Trigger: "Sandstorm"},
	{Name: "Pollinated", Multiplier: 3, Trigger: "Swarm"},
	{Name: "Bloodlit", Multiplier: 4, Trigger: "Blood Moon"},
	{Name: "Burnt", Multiplier: 4, Trigger: "Chicken Rain"},
	{Name: "Honey Glazed", Multiplier: 5, Trigger: "Honey Rain"},
	{Name: "Plasma", Multiplier: 5, Trigger: "Laser"},
	{Name: "Heavenly", Multiplier: 5, Trigger: "Floating Aubi"},
	{Name: "Drenched", Multiplier: 5, Trigger: "Tropical Rain"},
	{Name: "Twisted", Multiplier: 5, Trigger: "Tornado"},
	{Name: MutationFrozen, Multiplier: 10, Trigger: "Wet + Chilled"},
	{Name: MutationVerdant, Multiplier: 10, Trigger: "Green Rain"},
	{Name: "Fried", Multiplier: 15, Trigger: "Chicken Rain"},
	{Name: MutationGolden, Multiplier: 20, Trigger: "1% chance"},
	{Name: "Cooked", Multiplier: 25, Trigger: "Chicken Rain"},
	{Name: "Zombified", Multiplier: 25, Trigger: "Aubi Zombie"},
	{Name: "Molten", Multiplier: 25, Trigger: "Volcano"},
	{Name: MutationRainbow, Multiplier: 50, Trigger: "0.1% chance"},
	{Name: MutationSundried, Multiplier: 85, Trigger: "Heatwave"},
	{Name: "Aurora", Multiplier: 90, Trigger: "Aurora Borealis"},
	{Name: "Shocked", Multiplier: 100, Trigger: "Thunderstorm"},
	{Name: MutationPardisal, Multiplier: 100, Trigger: "Sundried + Verdant"},
	{Name: "Celestial", Multiplier: 120, Trigger: "Meteor"},
	{Name: "Disco", Multiplier: 125, Trigger: "Disco"},
	{Name: "Voidtouched", Multiplier: 135, Trigger: "Blackhole"},
	{Name: "Dawnbound", Multiplier: 150, Trigger: "Sungod"},
}

var mutationsByName = func() map[string]domain.Mutation {
	m := make(map[string]domain.Mutation, len(Mutations))
	for _, mut := range Mutations {
		m[mut.Name] = mut
	}
	return m
}()

// MutationByName looks up a mutation definition. The second return is false
// for names not in the catalog.
func MutationByName(name string) (domain.Mutation, bool) {
	m, ok := mutationsByName[name]
	return m, ok
}

// Multiplier returns the price multiplier for a mutation name, or 1 for
// unknown names so a stray name can never zero out a sale.
func Multiplier(name string) float64 {
	if m, ok := mutationsByName[name]; ok {
		return m.Multiplier
	}
	return 1
}

// combination rules keyed by an unordered pair of base mutations. When both
// halves of a pair are present on a crop they collapse into the combined
// mutation instead of stacking.
type pair struct{ a, b string }

var combinations = map[pair]string{
	{MutationWet, MutationChilled}:      MutationFrozen,
	{MutationSundried, MutationVerdant}: MutationPardisal,
}

// Combine returns the combined mutation formed by a and b, if any.
func Combine(a, b string) (string, bool) {
	if c, ok := combinations[pair{a, b}]; ok {
		return c, true
	}
	c, ok := combinations[pair{b, a}]
	return c, ok
}

// ApplyMutation adds the named mutation to the set, honoring combination
// rules: if the new mutation pairs with one already present, the pair is
// replaced by the combined mutation. Duplicate names are ignored. Display
// order of the surviving mutations is preserved.
func ApplyMutation(existing []string, name string) []string {
	for _, m := range existing {
		if m == name {
			return existing
		}
	}
	for i, m := range existing {
		if combined, ok := Combine(m, name); ok {
			out := make([]string, 0, len(existing))
			out = append(out, existing[:i]...)
			out = append(out, existing[i+1:]...)
			// combined result may itself pair with another base mutation
			return ApplyMutation(out, combined)
		}
	}
	return append(existing, name)
}

// NormalizeMutation resolves a case-insensitive mutation name to its catalog
// spelling.
func NormalizeMutation(name string) (string, bool) {
	canonical := titleCaser.String(strings.TrimSpace(name))
	if _, ok := mutationsByName[canonical]; ok {
		return canonical, true
	}
	return "", false
}
