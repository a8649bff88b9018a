package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// completedFilter restricts revenue aggregates to orders that are both
// paid and delivered.
const completedFilter = "payment_status = 'paid' AND order_status = 'delivered'"

type Repo struct {
	DB *pgxpool.Pool
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SalesOverview fans out the today and yesterday pipelines and joins them
// into one comparison payload.
func (r *Repo) SalesOverview(ctx context.Context, now time.Time) (*SalesOverview, error) {
	today := dayStart(now)
	yesterday := today.AddDate(0, 0, -1)

	var (
		points         []HourlyPoint
		yesterdayTotal float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		points, err = r.hourlySales(gctx, today, today.AddDate(0, 0, 1))
		return err
	})
	g.Go(func() error {
		return r.DB.QueryRow(gctx, `
			SELECT COALESCE(SUM(total_price), 0)
			FROM orders
			WHERE `+completedFilter+` AND created_at >= $1 AND created_at < $2
		`, yesterday, today).Scan(&yesterdayTotal)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var todayTotal float64
	for _, p := range points {
		todayTotal += p.Sales
	}
	return &SalesOverview{
		Today:          points,
		TodayTotal:     todayTotal,
		TodayProfit:    estimateProfit(todayTotal),
		YesterdayTotal: yesterdayTotal,
		SalesChangePct: percentChange(todayTotal, yesterdayTotal),
	}, nil
}

func (r *Repo) hourlySales(ctx context.Context, from, to time.Time) ([]HourlyPoint, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT EXTRACT(HOUR FROM created_at)::int AS hour, COALESCE(SUM(total_price), 0)
		FROM orders
		WHERE `+completedFilter+` AND created_at >= $1 AND created_at < $2
		GROUP BY 1
		ORDER BY 1
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byHour := make(map[int]float64)
	for rows.Next() {
		var hour int
		var sales float64
		if err := rows.Scan(&hour, &sales); err != nil {
			return nil, err
		}
		byHour[hour] = sales
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	points := make([]HourlyPoint, 24)
	for h := 0; h < 24; h++ {
		sales := byHour[h]
		points[h] = HourlyPoint{Hour: h, Sales: sales, Profit: estimateProfit(sales)}
	}
	return points, nil
}

func periodStart(period string, now time.Time) (time.Time, error) {
	switch period {
	case "day":
		return dayStart(now), nil
	case "month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	case "year":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), nil
	default:
		return time.Time{}, fmt.Errorf("analytics: unknown period %q", period)
	}
}

// SalesByRootCategory attributes completed item revenue to the root of
// each product's category chain.
func (r *Repo) SalesByRootCategory(ctx context.Context, period string, now time.Time) (*CategorySalesReport, error) {
	from, err := periodStart(period, now)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		WITH RECURSIVE roots AS (
			SELECT id, name, id AS root_id, name AS root_name
			FROM categories WHERE parent_id IS NULL
			UNION ALL
			SELECT c.id, c.name, r.root_id, r.root_name
			FROM categories c
			JOIN roots r ON c.parent_id = r.id
		)
		SELECT roots.root_name, COALESCE(SUM(oi.price), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		JOIN roots ON roots.id = p.category_id
		WHERE o.`+completedFilter+` AND o.created_at >= $1
		GROUP BY roots.root_name
		ORDER BY 2 DESC
	`, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report := &CategorySalesReport{Period: period}
	for rows.Next() {
		var cs CategorySales
		if err := rows.Scan(&cs.Category, &cs.Sales); err != nil {
			return nil, err
		}
		report.Categories = append(report.Categories, cs)
		report.Total += cs.Sales
	}
	return report, rows.Err()
}

// Visitors counts deduplicated visits per hour or per day since the
// given time.
func (r *Repo) Visitors(ctx context.Context, bucket string, since time.Time) ([]VisitorPoint, error) {
	if bucket != "hour" && bucket != "day" {
		return nil, fmt.Errorf("analytics: unknown visitor bucket %q", bucket)
	}
	rows, err := r.DB.Query(ctx, `
		SELECT date_trunc($1, visited_at) AS bucket, COUNT(*)
		FROM visitor_logs
		WHERE visited_at >= $2
		GROUP BY 1
		ORDER BY 1
	`, bucket, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []VisitorPoint
	for rows.Next() {
		var p VisitorPoint
		if err := rows.Scan(&p.Bucket, &p.Count); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SessionsByCountry and SessionsByDevice break active login sessions
// down for the geography and device widgets.
func (r *Repo) SessionsByCountry(ctx context.Context) ([]SessionBreakdown, error) {
	return r.sessionBreakdown(ctx, "country")
}

func (r *Repo) SessionsByDevice(ctx context.Context) ([]SessionBreakdown, error) {
	return r.sessionBreakdown(ctx, "device")
}

func (r *Repo) sessionBreakdown(ctx context.Context, column string) ([]SessionBreakdown, error) {
	// column is one of two fixed identifiers, never caller input.
	rows, err := r.DB.Query(ctx, `
		SELECT COALESCE(NULLIF(`+column+`, ''), 'Unknown'), COUNT(*)
		FROM user_sessions
		GROUP BY 1
		ORDER BY 2 DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionBreakdown
	for rows.Next() {
		var b SessionBreakdown
		if err := rows.Scan(&b.Label, &b.Count); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// LatestCustomers lists the ten customers with the most recent orders,
// with lifetime spend across completed payments.
func (r *Repo) LatestCustomers(ctx context.Context) ([]CustomerSummary, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT u.id, u.name, u.email, COALESCE(u.avatar, ''),
		       COUNT(o.id),
		       COALESCE(SUM(o.total_price) FILTER (WHERE o.payment_status = 'paid'), 0),
		       MAX(o.created_at)
		FROM users u
		JOIN orders o ON o.user_id = u.id
		GROUP BY u.id, u.name, u.email, u.avatar
		ORDER BY MAX(o.created_at) DESC
		LIMIT 10
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CustomerSummary
	for rows.Next() {
		var c CustomerSummary
		if err := rows.Scan(&c.UserID, &c.Name, &c.Email, &c.Avatar,
			&c.OrderCount, &c.TotalSpent, &c.LastOrderAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Transactions returns the most recent orders as display rows for the
// payment-history widget.
func (r *Repo) Transactions(ctx context.Context, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.DB.Query(ctx, `
		SELECT o.id, u.name, o.total_price, o.payment_method, o.payment_status, o.created_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var tx Transaction
		var payStatus string
		if err := rows.Scan(&tx.OrderID, &tx.UserName, &tx.Amount, &tx.Method, &payStatus, &tx.CreatedAt); err != nil {
			return nil, err
		}
		tx.Status = mapPaymentStatus(payStatus)
		out = append(out, tx)
	}
	return out, rows.Err()
}
