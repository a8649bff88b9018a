package analytics

// costRate is the assumed cost share of revenue used for the dashboard
// profit estimate. Profit = sales * (1 - costRate).
const costRate = 0.75

func estimateProfit(sales float64) float64 {
	return sales * (1 - costRate)
}

// percentChange reports the relative change from prev to cur. A zero
// baseline counts as a full increase (or no change when both are zero).
func percentChange(cur, prev float64) float64 {
	if prev == 0 {
		if cur == 0 {
			return 0
		}
		return 100
	}
	return (cur - prev) / prev * 100
}

// mapPaymentStatus converts a stored payment status to its display label.
func mapPaymentStatus(s string) string {
	switch s {
	case "paid":
		return "Completed"
	case "failed":
		return "Cancelled"
	default:
		return "In progress"
	}
}
