package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"Aletheia/internal/domain/models"
	drepo "Aletheia/internal/domain/repository"
	"Aletheia/internal/service/history"
	"Aletheia/internal/service/upstream"
	"Aletheia/pkg/config"
	xhttp "Aletheia/pkg/http"
	"Aletheia/pkg/logger"
	"Aletheia/pkg/util"
)

const (
	staleWarning       = "Live analysis unavailable. Serving last known data."
	unavailableMessage = "Intelligence service is temporarily unavailable. Please try again later."
	internalMessage    = "Intelligence lookup failed unexpectedly."
)

// Resolution is the outcome of a resolve call: a wire status plus either a
// JSON-serializable body or, for upstream error pass-through, raw bytes.
type Resolution struct {
	StatusCode int
	Body       interface{}
	Raw        json.RawMessage
}

// Resolver decides which of live, cache, or static fallback to serve and
// keeps the record cache consistent along the way.
type Resolver struct {
	logger   *logger.Logger
	upstream drepo.UpstreamClient
	store    drepo.RecordStore
	heal     drepo.HealQueue
	pub      drepo.Publisher
	metrics  drepo.Metrics
	synth    *history.Synthesizer
	static   map[string]config.StaticEntry
	ceiling  float64
}

// NewResolver creates the intelligence resolver. pub may be nil when no
// event channel is configured.
func NewResolver(
	lgr *logger.Logger,
	up drepo.UpstreamClient,
	store drepo.RecordStore,
	heal drepo.HealQueue,
	pub drepo.Publisher,
	metrics drepo.Metrics,
	synth *history.Synthesizer,
	static map[string]config.StaticEntry,
	ceiling float64,
) *Resolver {
	return &Resolver{
		logger:   lgr,
		upstream: up,
		store:    store,
		heal:     heal,
		pub:      pub,
		metrics:  metrics,
		synth:    synth,
		static:   static,
		ceiling:  ceiling,
	}
}

// Resolve serves intelligence for one ticker. Precedence on upstream
// failure is fixed: static fallback first, then cache, then the most
// specific error status available.
func (r *Resolver) Resolve(ctx context.Context, ticker string) *Resolution {
	start := time.Now()
	defer func() {
		r.metrics.RecordLatency("resolve", time.Since(start).Seconds())
	}()

	ticker = util.NormalizeTicker(ticker)

	payload, err := r.upstream.FetchPrediction(ctx, ticker)
	if err != nil {
		return r.resolveFallback(ctx, ticker, err)
	}
	if payload.InTraining() {
		return r.resolveTraining(ctx, ticker, payload)
	}
	return r.resolveLive(ctx, ticker, payload)
}

func (r *Resolver) resolveLive(ctx context.Context, ticker string, p *models.PredictionPayload) *Resolution {
	hist := p.History
	if !history.Valid(hist, r.ceiling) {
		hist = r.synth.Synthesize(ticker, p.Prediction)
	}

	// Best-effort persistence. A dead cache degrades future fallbacks but
	// must not fail a response we already have in hand.
	err := r.store.Upsert(ctx, ticker, models.RecordFields{
		ReliabilityScore: &p.ReliabilityScore,
		Regime:           &p.Regime,
		Prediction:       &p.Prediction,
		NarrativeSummary: &p.NarrativeSummary,
		IsConsistent:     &p.IsConsistent,
		History:          &hist,
	})
	if err != nil {
		r.metrics.RecordCacheWriteFailure()
		r.logger.Warn("live result not cached", logger.String("ticker", ticker), logger.Error(err))
	}

	rec := models.IntelligenceRecord{
		Ticker:           ticker,
		ReliabilityScore: p.ReliabilityScore,
		Regime:           p.Regime,
		Prediction:       p.Prediction,
		NarrativeSummary: p.NarrativeSummary,
		IsConsistent:     p.IsConsistent,
		History:          hist,
		LastUpdated:      time.Now(),
	}

	if r.pub != nil {
		go r.publish(ctx, rec)
	}

	r.metrics.RecordResolution(models.SourceLive)
	return &Resolution{
		StatusCode: http.StatusOK,
		Body: models.EnrichedIntelligence{
			IntelligenceRecord: rec,
			Source:             models.SourceLive,
			SystemStatus:       models.StatusOnline,
		},
	}
}

func (r *Resolver) resolveTraining(ctx context.Context, ticker string, p *models.PredictionPayload) *Resolution {
	rec, err := r.store.Get(ctx, ticker)
	if err != nil {
		r.logger.Warn("cache read failed during training", logger.String("ticker", ticker), logger.Error(err))
		rec = nil
	}

	if rec == nil {
		// Nothing cached yet; hand the client the raw training payload and
		// let it poll.
		r.metrics.RecordResolution(models.StatusTraining)
		return &Resolution{StatusCode: http.StatusAccepted, Body: p}
	}

	r.repairHistory(ctx, rec)
	r.metrics.RecordResolution(models.SourceCache)
	return &Resolution{
		StatusCode: http.StatusOK,
		Body: models.EnrichedIntelligence{
			IntelligenceRecord: *rec,
			Source:             models.SourceCache,
			SystemStatus:       models.StatusTraining,
			Message:            p.Message,
		},
	}
}

func (r *Resolver) resolveFallback(ctx context.Context, ticker string, fetchErr error) *Resolution {
	r.logger.Warn("upstream fetch failed, entering fallback cascade",
		logger.String("ticker", ticker), logger.Error(fetchErr))

	if entry, ok := r.static[ticker]; ok {
		return r.serveStatic(ctx, ticker, entry)
	}

	rec, err := r.store.Get(ctx, ticker)
	if err != nil {
		r.logger.Warn("cache read failed during fallback", logger.String("ticker", ticker), logger.Error(err))
		rec = nil
	}
	if rec != nil {
		r.repairHistory(ctx, rec)
		r.metrics.RecordResolution(models.SourceCache)
		return &Resolution{
			StatusCode: http.StatusOK,
			Body: models.EnrichedIntelligence{
				IntelligenceRecord: *rec,
				Source:             models.SourceCache,
				SystemStatus:       models.StatusErrorFallback,
				Warning:            staleWarning,
			},
		}
	}

	return r.serveExhausted(ticker, fetchErr)
}

func (r *Resolver) serveStatic(ctx context.Context, ticker string, entry config.StaticEntry) *Resolution {
	hist := r.synth.Synthesize(ticker, entry.Prediction)

	// Seed the cache so a later fallback can hit it even if the static
	// table shrinks.
	err := r.store.Upsert(ctx, ticker, models.RecordFields{
		ReliabilityScore: &entry.ReliabilityScore,
		Regime:           &entry.Regime,
		Prediction:       &entry.Prediction,
		NarrativeSummary: &entry.NarrativeSummary,
		IsConsistent:     &entry.IsConsistent,
		History:          &hist,
	})
	if err != nil {
		r.metrics.RecordCacheWriteFailure()
		r.logger.Warn("static fallback not cached", logger.String("ticker", ticker), logger.Error(err))
	}

	r.metrics.RecordResolution(models.SourceStatic)
	return &Resolution{
		StatusCode: http.StatusOK,
		Body: models.EnrichedIntelligence{
			IntelligenceRecord: models.IntelligenceRecord{
				Ticker:           ticker,
				ReliabilityScore: entry.ReliabilityScore,
				Regime:           entry.Regime,
				Prediction:       entry.Prediction,
				NarrativeSummary: entry.NarrativeSummary,
				IsConsistent:     entry.IsConsistent,
				History:          hist,
				LastUpdated:      time.Now(),
			},
			Source:       models.SourceStatic,
			SystemStatus: models.StatusOnline,
		},
	}
}

// serveExhausted surfaces the most specific failure available: the
// upstream's own error status, 503 for any connectivity failure that never
// produced a response, 500 only for genuinely unexpected errors (decode).
func (r *Resolver) serveExhausted(ticker string, fetchErr error) *Resolution {
	r.metrics.RecordError("upstream_exhausted")
	r.logger.Error("no fallback available", logger.String("ticker", ticker), logger.Error(fetchErr))

	var statusErr *upstream.StatusError
	if errors.As(fetchErr, &statusErr) {
		if len(statusErr.Body) > 0 && json.Valid(statusErr.Body) {
			return &Resolution{StatusCode: statusErr.Code, Raw: json.RawMessage(statusErr.Body)}
		}
		return &Resolution{
			StatusCode: statusErr.Code,
			Body:       xhttp.NewAppError("ERR_UPSTREAM", unavailableMessage, statusErr.Code),
		}
	}

	var transportErr *upstream.TransportError
	var unavail *upstream.UnavailableError
	if errors.As(fetchErr, &transportErr) || errors.As(fetchErr, &unavail) {
		return &Resolution{
			StatusCode: http.StatusServiceUnavailable,
			Body:       xhttp.ServiceUnavailableError(unavailableMessage),
		}
	}

	return &Resolution{
		StatusCode: http.StatusInternalServerError,
		Body:       xhttp.InternalError(internalMessage).WithError(fetchErr),
	}
}

// repairHistory regenerates a corrupt or missing series in place and queues
// a corrective write. The queue write is never awaited; the repaired record
// is visible to the next read, not necessarily to concurrent ones.
func (r *Resolver) repairHistory(ctx context.Context, rec *models.IntelligenceRecord) {
	if history.Valid(rec.History, r.ceiling) {
		return
	}

	repaired := r.synth.Synthesize(rec.Ticker, rec.Prediction)
	rec.History = repaired

	heal := r.heal
	bg := context.WithoutCancel(ctx)
	go func() {
		if err := heal.Enqueue(bg, rec.Ticker, repaired); err != nil {
			r.metrics.RecordCacheWriteFailure()
			r.logger.Warn("self-heal enqueue failed", logger.String("ticker", rec.Ticker), logger.Error(err))
		}
	}()
}

func (r *Resolver) publish(ctx context.Context, rec models.IntelligenceRecord) {
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := r.pub.PublishIntelligence(bg, &rec); err != nil {
		r.logger.Warn("intelligence event not published", logger.String("ticker", rec.Ticker), logger.Error(err))
	}
}
