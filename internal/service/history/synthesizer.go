package history

import (
	"math"
	"math/rand"

	"Aletheia/internal/domain/models"
	"Aletheia/pkg/util"
)

// Days is the fixed length of a synthesized series.
const Days = 30

// priceFloor keeps synthesized prices strictly positive.
const priceFloor = 0.01

const defaultBasePrice = 100

// Synthesizer produces plausible daily price series for tickers whose real
// history is missing or corrupt. Output is deliberately unseeded: two calls
// with identical inputs produce different walks.
type Synthesizer struct {
	basePrices map[string]float64
}

// NewSynthesizer creates a synthesizer with the injected base price table.
func NewSynthesizer(basePrices map[string]float64) *Synthesizer {
	return &Synthesizer{basePrices: basePrices}
}

// Synthesize returns a Days-point random walk, oldest first, ending today.
// Daily volatility widens when |bias| exceeds 0.003 and the walk drifts in
// the direction of bias. Prices stay within [0.75, 1.25] of the ticker's
// base price and are rounded to 2 decimals.
func (s *Synthesizer) Synthesize(ticker string, bias float64) []models.PricePoint {
	base := s.basePrices[ticker]
	if base <= 0 {
		base = defaultBasePrice
	}

	volatility := 0.015
	if math.Abs(bias) > 0.003 {
		volatility = 0.025
	}
	trendStrength := math.Abs(bias) * float64(Days)

	drift := trendStrength / float64(Days)
	if bias <= 0 {
		drift = -drift
	}

	price := base
	series := make([]models.PricePoint, 0, Days)

	for i := Days - 1; i >= 0; i-- {
		shock := (rand.Float64() - 0.5) * 2 * volatility * price
		momentum := (rand.Float64() - 0.5) * 0.01 * price

		price += drift + shock + momentum

		price = math.Max(price, base*0.75)
		price = math.Min(price, base*1.25)
		if math.IsNaN(price) || price < priceFloor {
			price = priceFloor
		}

		series = append(series, models.PricePoint{
			Date:  util.Day(util.DaysAgo(i)),
			Price: round2(price),
		})
	}

	return series
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
