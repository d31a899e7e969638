package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"Aletheia/internal/domain/models"
	drepo "Aletheia/internal/domain/repository"
)

// ClickHouseTradeLedger implements TradeLedger over an append-only trade
// table. The resolver only reads aggregates from it; writes come from the
// Kafka ingest path.
type ClickHouseTradeLedger struct {
	db    *sql.DB
	table string
}

// NewTradeLedger creates a ClickHouse trade ledger.
func NewTradeLedger(db *sql.DB, table string) drepo.TradeLedger {
	return &ClickHouseTradeLedger{db: db, table: table}
}

func (l *ClickHouseTradeLedger) Append(ctx context.Context, t *models.Trade) error {
	q := fmt.Sprintf("INSERT INTO %s (ts, symbol, side, quantity, total_amount) VALUES (?, ?, ?, ?, ?)", l.table)
	_, err := l.db.ExecContext(ctx, q,
		time.Unix(t.Timestamp, 0),
		t.Symbol,
		string(t.Side),
		t.Quantity,
		t.TotalAmount,
	)
	if err != nil {
		return fmt.Errorf("ledger append: %w", err)
	}
	return nil
}

// NetVolumes returns buy-minus-sell quantity per symbol across all trades.
func (l *ClickHouseTradeLedger) NetVolumes(ctx context.Context) (map[string]float64, error) {
	q := fmt.Sprintf(
		"SELECT symbol, sumIf(quantity, side = 'BUY') - sumIf(quantity, side = 'SELL') AS net FROM %s GROUP BY symbol",
		l.table,
	)
	rows, err := l.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("ledger net volumes: %w", err)
	}
	defer rows.Close()

	volumes := make(map[string]float64)
	for rows.Next() {
		var symbol string
		var net float64
		if err := rows.Scan(&symbol, &net); err != nil {
			return nil, fmt.Errorf("ledger scan: %w", err)
		}
		volumes[symbol] = net
	}
	return volumes, rows.Err()
}

func (l *ClickHouseTradeLedger) Health(ctx context.Context) error {
	return l.db.PingContext(ctx)
}

func (l *ClickHouseTradeLedger) Close() error {
	return nil // pool owned by pkg/clickhouse client
}
