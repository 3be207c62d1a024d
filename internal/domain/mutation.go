package domain

// Mutation is a named multiplicative modifier on a crop's sale price.
// Multipliers are >= 1 and compound multiplicatively when a crop carries
// several mutations. Trigger is descriptive only; the machine-enforced mapping
// lives in the catalog's weather table.
type Mutation struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
	Trigger    string  `json:"trigger"`
}
