package news

import (
	"fmt"
	"math/rand"
	"time"
)

// Item is one generated headline.
type Item struct {
	ID          int       `json:"id"`
	Headline    string    `json:"headline"`
	Source      string    `json:"source"`
	Sentiment   string    `json:"sentiment"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// Feed is the response body for a news lookup.
type Feed struct {
	Ticker string `json:"ticker"`
	News   []Item `json:"news"`
	Source string `json:"source"`
}

var sentiments = []string{"Positive", "Neutral", "Negative"}

var sources = []string{"Bloomberg", "Reuters", "CNBC", "MarketWatch", "Financial Times"}

var headlineTemplates = []string{
	"Analysts upgrade %s citing strong earnings potential",
	"Market volatility impacts %s amidst global uncertainty",
	"Institutional investors increase stake in %s",
	"%s announces new strategic partnership to expand market share",
	"Regulatory concerns loom over %s's latest product launch",
	"Tech sector rally boosts %s to new highs",
	"%s faces headwinds from supply chain disruptions",
	"Insider trading activity reported at %s",
	"%s outlines ambitious roadmap for next fiscal year",
	"Competitor moves put pressure on %s's margins",
}

// Generator produces mock headlines for tickers without a real news feed.
// Stateless: no caching, no retries.
type Generator struct{}

// NewGenerator creates a news generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns n random headline items published within the last 48h.
func (g *Generator) Generate(ticker string, n int) Feed {
	items := make([]Item, 0, n)
	now := time.Now()

	for i := 0; i < n; i++ {
		tmpl := headlineTemplates[rand.Intn(len(headlineTemplates))]
		items = append(items, Item{
			ID:          i,
			Headline:    fmt.Sprintf(tmpl, ticker),
			Source:      sources[rand.Intn(len(sources))],
			Sentiment:   sentiments[rand.Intn(len(sentiments))],
			URL:         "#",
			PublishedAt: now.Add(-time.Duration(rand.Int63n(int64(48 * time.Hour)))),
		})
	}

	return Feed{
		Ticker: ticker,
		News:   items,
		Source: "Live News Feed (Simulated)",
	}
}
