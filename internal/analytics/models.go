// Package analytics builds the read-only dashboard aggregates over
// orders, sessions, and visitor logs.
package analytics

import "time"

// HourlyPoint is one hour bucket of completed sales.
type HourlyPoint struct {
	Hour   int     `json:"hour"`
	Sales  float64 `json:"sales"`
	Profit float64 `json:"profit"`
}

// SalesOverview compares today's completed sales against yesterday's.
type SalesOverview struct {
	Today          []HourlyPoint `json:"today"`
	TodayTotal     float64       `json:"todayTotal"`
	TodayProfit    float64       `json:"todayProfit"`
	YesterdayTotal float64       `json:"yesterdayTotal"`
	SalesChangePct float64       `json:"salesChangePct"`
}

// CategorySales is completed revenue attributed to one root category.
type CategorySales struct {
	Category string  `json:"category"`
	Sales    float64 `json:"sales"`
}

// CategorySalesReport buckets root-category revenue by a period.
type CategorySalesReport struct {
	Period     string          `json:"period"` // day, month, or year
	Categories []CategorySales `json:"categories"`
	Total      float64         `json:"total"`
}

// VisitorPoint is a visit count in one time bucket.
type VisitorPoint struct {
	Bucket time.Time `json:"bucket"`
	Count  int64     `json:"count"`
}

// SessionBreakdown counts login sessions by one dimension value.
type SessionBreakdown struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// CustomerSummary is one row of the latest-customers widget.
type CustomerSummary struct {
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Avatar      string    `json:"avatar,omitempty"`
	OrderCount  int64     `json:"orderCount"`
	TotalSpent  float64   `json:"totalSpent"`
	LastOrderAt time.Time `json:"lastOrderAt"`
}

// Transaction is one row of the payment history widget. Status is the
// display mapping of the order's payment status.
type Transaction struct {
	OrderID   string    `json:"orderId"`
	UserName  string    `json:"userName"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
