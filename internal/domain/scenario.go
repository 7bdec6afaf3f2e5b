package domain

// Scenario is a narrative climate outcome with an estimated likelihood.
type Scenario struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Probability int    `json:"probability"` // percent
}

// Scenarios returns the fixed scenario catalogue.
func Scenarios() []Scenario {
	return []Scenario{
		{
			Title:       "Rising Sea Levels",
			Description: "Coastal areas experiencing significant flooding due to accelerated ice melt and thermal expansion of oceans.",
			Probability: 85,
		},
		{
			Title:       "Extreme Weather",
			Description: "Increased frequency and intensity of storms, hurricanes, and other extreme weather events.",
			Probability: 78,
		},
		{
			Title:       "Temperature Rise",
			Description: "Urban heat islands and prolonged heat waves affecting metropolitan areas globally.",
			Probability: 92,
		},
		{
			Title:       "Arctic Changes",
			Description: "Rapid ice melt and permafrost thaw leading to significant ecosystem changes.",
			Probability: 89,
		},
	}
}
