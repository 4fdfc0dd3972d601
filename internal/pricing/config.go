package pricing

import "math"

// Config holds the conversion constants shared by every caller that turns
// points into client-facing hours and money. It is constructed once at
// startup and injected.
type Config struct {
	HoursPerPoint  float64 `yaml:"hours_per_point"`
	PricePerPoint  float64 `yaml:"price_per_point"`
	DefaultUpfront float64 `yaml:"default_upfront"`
	ZeroEpsilon    float64 `yaml:"zero_epsilon"`
	CurrencySymbol string  `yaml:"currency_symbol"`
}

// DefaultConfig returns the studio's standard rate card.
func DefaultConfig() Config {
	return Config{
		HoursPerPoint:  4,
		PricePerPoint:  600,
		DefaultUpfront: 0.5,
		ZeroEpsilon:    0.01,
		CurrencySymbol: "$",
	}
}

// Negligible reports whether amount is too small, relative to total, to be
// shown as its own payment row.
func (c Config) Negligible(amount, total float64) bool {
	if total <= 0 {
		return true
	}
	return math.Abs(amount) < c.ZeroEpsilon*total
}

// FullUpfront reports whether the default upfront fraction rounds to 100%.
func (c Config) FullUpfront() bool {
	return math.Round(c.DefaultUpfront*100) >= 100
}

// RoundCents rounds a money amount to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
