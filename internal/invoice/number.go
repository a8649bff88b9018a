// Package invoice issues invoice numbers and renders invoice PDFs.
package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CounterStore atomically increments and returns the sequence for a
// (year, month) bucket. The increment-and-fetch must be one atomic
// operation so concurrent calls never share a number.
type CounterStore interface {
	Next(ctx context.Context, year, month int) (int, error)
}

type PgCounter struct{ DB *pgxpool.Pool }

// Next is a single-statement upsert: the first call in a bucket creates
// the row at 1, later calls increment it. RETURNING makes the
// read-after-write atomic.
func (c *PgCounter) Next(ctx context.Context, year, month int) (int, error) {
	var seq int
	err := c.DB.QueryRow(ctx, `
		INSERT INTO invoice_counters(year, month, seq) VALUES ($1, $2, 1)
		ON CONFLICT (year, month) DO UPDATE SET seq = invoice_counters.seq + 1
		RETURNING seq`, year, month).Scan(&seq)
	return seq, err
}

// FormatID renders an invoice number as INV-YYYY-MM-NNNNN.
func FormatID(year, month, seq int) string {
	return fmt.Sprintf("INV-%04d-%02d-%05d", year, month, seq)
}

type Service struct {
	Counter CounterStore
	Now     func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Issue allocates the next number in the current month's bucket.
// Numbers are never reused; an order save failing after Issue leaves a
// gap, which is accepted.
func (s *Service) Issue(ctx context.Context) (string, error) {
	now := s.now()
	year, month := now.Year(), int(now.Month())
	seq, err := s.Counter.Next(ctx, year, month)
	if err != nil {
		return "", err
	}
	return FormatID(year, month, seq), nil
}
