package models

import "time"

// Serving source tags attached to every resolved response.
const (
	SourceLive   = "live"
	SourceCache  = "cache"
	SourceStatic = "static_analysis"
)

// System status tags.
const (
	StatusTraining      = "training"
	StatusOnline        = "online"
	StatusErrorFallback = "error_fallback"
)

// PricePoint is one daily close of a history series.
type PricePoint struct {
	Date  string  `json:"date"` // calendar day, YYYY-MM-DD
	Price float64 `json:"price"`
}

// IntelligenceRecord is the cached last-known-good intelligence for one
// ticker. At most one record exists per (uppercase) ticker; records are
// upserted, never deleted.
type IntelligenceRecord struct {
	Ticker           string       `json:"ticker"`
	ReliabilityScore float64      `json:"reliability_score"`
	Regime           string       `json:"regime"`
	Prediction       float64      `json:"prediction"`
	NarrativeSummary string       `json:"narrative_summary,omitempty"`
	IsConsistent     bool         `json:"is_consistent"`
	History          []PricePoint `json:"history"`
	LastUpdated      time.Time    `json:"last_updated"`
}

// RecordFields is a partial update for an IntelligenceRecord. Nil fields
// are left untouched by an upsert; last_updated is always refreshed.
type RecordFields struct {
	ReliabilityScore *float64
	Regime           *string
	Prediction       *float64
	NarrativeSummary *string
	IsConsistent     *bool
	History          *[]PricePoint
}

// PredictionPayload is the upstream prediction service response.
type PredictionPayload struct {
	Status           string       `json:"status,omitempty"`
	ReliabilityScore float64      `json:"reliability_score"`
	Regime           string       `json:"regime"`
	Prediction       float64      `json:"prediction"`
	NarrativeSummary string       `json:"narrative_summary,omitempty"`
	IsConsistent     bool         `json:"is_consistent"`
	History          []PricePoint `json:"history,omitempty"`
	Message          string       `json:"message,omitempty"`
}

// InTraining reports whether the upstream is retraining its model. This is
// a successful response, not a transport error.
func (p *PredictionPayload) InTraining() bool {
	return p.Status == StatusTraining
}

// TickerSummary is one element of the upstream public ticker list.
type TickerSummary struct {
	Ticker     string  `json:"ticker"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Change     float64 `json:"change"`
	IsAnalyzed bool    `json:"is_analyzed"`
}

// TickerEntry is one element of the merged ticker list served to clients.
type TickerEntry struct {
	Ticker     string  `json:"ticker"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Change     float64 `json:"change"`
	IsAnalyzed bool    `json:"is_analyzed"`
}

// EnrichedIntelligence is the externally visible resolution result: the
// intelligence fields plus provenance tags.
type EnrichedIntelligence struct {
	IntelligenceRecord
	Source       string `json:"source"`
	SystemStatus string `json:"system_status,omitempty"`
	Message      string `json:"message,omitempty"`
	Warning      string `json:"warning,omitempty"`
}
