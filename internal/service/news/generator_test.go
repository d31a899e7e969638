package news

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateShape(t *testing.T) {
	g := NewGenerator()

	feed := g.Generate("NVDA", 5)
	if feed.Ticker != "NVDA" {
		t.Fatalf("unexpected ticker %q", feed.Ticker)
	}
	if len(feed.News) != 5 {
		t.Fatalf("expected 5 items, got %d", len(feed.News))
	}

	cutoff := time.Now().Add(-49 * time.Hour)
	for i, item := range feed.News {
		if item.ID != i {
			t.Fatalf("item %d has id %d", i, item.ID)
		}
		if !strings.Contains(item.Headline, "NVDA") {
			t.Fatalf("headline %q does not mention ticker", item.Headline)
		}
		if item.PublishedAt.Before(cutoff) || item.PublishedAt.After(time.Now()) {
			t.Fatalf("item %d published_at %v outside window", i, item.PublishedAt)
		}
		switch item.Sentiment {
		case "Positive", "Neutral", "Negative":
		default:
			t.Fatalf("unexpected sentiment %q", item.Sentiment)
		}
	}
}

func TestGenerateLimit(t *testing.T) {
	g := NewGenerator()
	if got := len(g.Generate("AAPL", 1).News); got != 1 {
		t.Fatalf("expected 1 item, got %d", got)
	}
}
