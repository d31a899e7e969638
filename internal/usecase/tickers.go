package usecase

import (
	"context"
	"math"
	"sort"
	"time"

	"Aletheia/internal/domain/models"
	drepo "Aletheia/internal/domain/repository"
	"Aletheia/pkg/config"
	"Aletheia/pkg/logger"
	"Aletheia/pkg/util"
)

// TickerLister merges the upstream public ticker list with synthetically
// priced entities derived from the trade ledger.
type TickerLister struct {
	logger   *logger.Logger
	upstream drepo.UpstreamClient
	store    drepo.RecordStore
	ledger   drepo.TradeLedger
	metrics  drepo.Metrics
	failsafe []config.FailsafeTicker
}

// NewTickerLister creates a ticker list aggregator. ledger may be nil when
// no transaction ledger is configured.
func NewTickerLister(
	lgr *logger.Logger,
	up drepo.UpstreamClient,
	store drepo.RecordStore,
	ledger drepo.TradeLedger,
	metrics drepo.Metrics,
	failsafe []config.FailsafeTicker,
) *TickerLister {
	return &TickerLister{
		logger:   lgr,
		upstream: up,
		store:    store,
		ledger:   ledger,
		metrics:  metrics,
		failsafe: failsafe,
	}
}

// ListTickers returns synthetic entities first, then public ones. A symbol
// present in both lists is served from upstream; the synthetic entry drops.
func (l *TickerLister) ListTickers(ctx context.Context) []models.TickerEntry {
	start := time.Now()
	defer func() {
		l.metrics.RecordLatency("list_tickers", time.Since(start).Seconds())
	}()

	public := l.publicTickers(ctx)
	synthetic := l.syntheticTickers(ctx)
	return MergeTickerEntries(synthetic, public)
}

func (l *TickerLister) publicTickers(ctx context.Context) []models.TickerEntry {
	summaries, err := l.upstream.FetchTickerList(ctx)
	if err == nil {
		entries := make([]models.TickerEntry, 0, len(summaries))
		for _, s := range summaries {
			entries = append(entries, models.TickerEntry{
				Ticker:     util.NormalizeTicker(s.Ticker),
				Name:       s.Name,
				Price:      s.Price,
				Change:     s.Change,
				IsAnalyzed: s.IsAnalyzed,
			})
		}
		return entries
	}

	l.logger.Warn("upstream ticker list unavailable, serving failsafe", logger.Error(err))
	l.metrics.RecordError("ticker_list_failsafe")

	// Enrich the fixed failsafe list from the cache: a ticker with a stored
	// record has been analyzed at some point, and its last cached close
	// beats the hardcoded price.
	entries := make([]models.TickerEntry, 0, len(l.failsafe))
	for _, f := range l.failsafe {
		ticker := util.NormalizeTicker(f.Ticker)
		price := f.Price
		analyzed := false
		if rec, gerr := l.store.Get(ctx, ticker); gerr == nil && rec != nil {
			analyzed = true
			if n := len(rec.History); n > 0 && rec.History[n-1].Price > 0 {
				price = rec.History[n-1].Price
			}
		}
		entries = append(entries, models.TickerEntry{
			Ticker:     ticker,
			Name:       f.Name,
			Price:      price,
			Change:     0,
			IsAnalyzed: analyzed,
		})
	}
	return entries
}

func (l *TickerLister) syntheticTickers(ctx context.Context) []models.TickerEntry {
	if l.ledger == nil {
		return nil
	}

	volumes, err := l.ledger.NetVolumes(ctx)
	if err != nil {
		l.logger.Warn("ledger aggregation failed, skipping synthetic tickers", logger.Error(err))
		l.metrics.RecordError("ledger_net_volumes")
		return nil
	}

	entries := make([]models.TickerEntry, 0, len(volumes))
	for symbol, net := range volumes {
		if net <= 0 {
			continue
		}
		ticker := util.NormalizeTicker(symbol)
		entries = append(entries, models.TickerEntry{
			Ticker:     ticker,
			Name:       ticker,
			Price:      SyntheticPrice(net),
			Change:     0,
			IsAnalyzed: false,
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Ticker < entries[j].Ticker })
	return entries
}

// SyntheticPrice derives a price for a not-yet-public entity from its net
// signed trade volume.
func SyntheticPrice(netVolume float64) float64 {
	return math.Max(1.00, 10.00+0.10*netVolume)
}

// MergeTickerEntries concatenates synthetic entries before public ones,
// dropping any synthetic entry whose ticker collides with a public one.
func MergeTickerEntries(synthetic, public []models.TickerEntry) []models.TickerEntry {
	taken := make(map[string]struct{}, len(public))
	for _, e := range public {
		taken[e.Ticker] = struct{}{}
	}

	merged := make([]models.TickerEntry, 0, len(synthetic)+len(public))
	for _, e := range synthetic {
		if _, ok := taken[e.Ticker]; ok {
			continue
		}
		merged = append(merged, e)
	}
	return append(merged, public...)
}
