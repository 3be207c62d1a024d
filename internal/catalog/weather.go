package catalog

import (
	"strings"

	"github.com/growallgarden/server/internal/domain"
)

// WeatherTypes lists every weather phenomenon an admin can trigger, in the
// order the control panel shows them.
var WeatherTypes = []string{
	"Rain",
	"Thunderstorm",
	"Frost",
	"Blood Moon",
	"Tornado",
	"Sandstorm",
	"Chocolate Rain",
	"Night",
	"Honey Rain",
	"Laser",
	"Volcano",
	"Heatwave",
	"Gale",
	"Green Rain",
	"Aurora Borealis",
	"Tropical Rain",
	"Disco",
	"Swarm",
	"Meteor",
	"Blackhole",
	"Sungod",
	"Aubi Zombie",
	"Floating Aubi",
	"Chicken Rain",
}

// weatherMutations maps each weather type to the mutations it deterministically
// grants to in-scope crops. This is a fixed lookup, not a random draw; the only
// randomness in mutation assignment is the rare Golden/Rainbow roll at plant
// time.
var weatherMutations = map[string][]string{
	"Rain":            {MutationWet},
	"Thunderstorm":    {MutationWet, "Shocked"},
	"Frost":           {MutationChilled},
	"Blood Moon":      {"Bloodlit"},
	"Tornado":         {"Twisted"},
	"Sandstorm":       {"Sandy"},
	"Chocolate Rain":  {"Chocolate"},
	"Night":           {"Moonlit"},
	"Honey Rain":      {"Honey Glazed"},
	"Laser":           {"Plasma"},
	"Volcano":         {"Molten"},
	"Heatwave":        {MutationSundried},
	"Gale":            {"Windstruck"},
	"Green Rain":      {MutationVerdant},
	"Aurora Borealis": {"Aurora"},
	"Tropical Rain":   {"Drenched"},
	"Disco":           {"Disco"},
	"Swarm":           {"Pollinated"},
	"Meteor":          {"Celestial"},
	"Blackhole":       {"Voidtouched"},
	"Sungod":          {"Dawnbound"},
	"Aubi Zombie":     {"Zombified"},
	"Floating Aubi":   {"Heavenly"},
	"Chicken Rain":    {"Cooked"},
}

// WeatherMutations returns the mutations granted by a weather type. The
// returned slice is a copy; callers may mutate it.
func WeatherMutations(weatherType string) []string {
	muts, ok := weatherMutations[weatherType]
	if !ok {
		return nil
	}
	out := make([]string, len(muts))
	copy(out, muts)
	return out
}

// NormalizeWeather resolves a case-insensitive weather name to its canonical
// spelling. "clear" normalizes too so admins can end weather through the same
// path.
func NormalizeWeather(name string) (string, bool) {
	canonical := titleCaser.String(strings.TrimSpace(name))
	if canonical == domain.WeatherClear {
		return domain.WeatherClear, true
	}
	if _, ok := weatherMutations[canonical]; ok {
		return canonical, true
	}
	return "", false
}
