package economy

import (
	"math"

	"github.com/growallgarden/server/internal/catalog"
	"github.com/growallgarden/server/internal/domain"
)

// Price computes the sell value of a harvested crop: the seed's base sell
// price scaled by the product of its mutation multipliers, floored to whole
// sheckles. Unknown mutation names contribute a neutral factor, so a price is
// always computable. The result does not depend on mutation order.
func Price(seed *domain.Seed, mutations []string) int {
	value := float64(seed.SellPrice)
	for _, m := range mutations {
		value *= catalog.Multiplier(m)
	}
	return int(math.Floor(value))
}
