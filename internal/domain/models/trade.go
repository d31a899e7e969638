package models

// TradeSide is the direction of a ledger trade.
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// Trade is one transaction ledger record. The intelligence core only
// aggregates these; it never mutates them.
type Trade struct {
	Symbol      string    `json:"symbol"`
	Side        TradeSide `json:"side"`
	Quantity    float64   `json:"quantity"`
	TotalAmount float64   `json:"total_amount"`
	Timestamp   int64     `json:"timestamp"` // unix seconds
}
