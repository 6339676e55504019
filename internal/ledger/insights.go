package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// BudgetLimit is a configured per-category limit. Limits are always
// positive; validation happens when the budget is stored.
type BudgetLimit struct {
	Category string
	Limit    decimal.Decimal
}

var (
	eighty       = decimal.NewFromFloat(0.8)
	fiveHundred  = decimal.NewFromInt(500)
	oneHundred   = decimal.NewFromInt(100)
	fallbackLine = "No major changes in your spending trends this month."
)

// PriorMonth returns the calendar month before the one containing asOf,
// rolling January back to December of the previous year.
func PriorMonth(asOf time.Time) (int, time.Month) {
	if asOf.Month() == time.January {
		return asOf.Year() - 1, time.December
	}
	return asOf.Year(), asOf.Month() - 1
}

// Generate builds the prioritized suggestion list from current-month and
// prior-month category totals plus the user's configured budgets. Budget
// threshold alerts win over month-over-month comparisons: a category that
// trips Tier 1 is excluded from Tier 2. The result is deterministic for a
// given input; when nothing fires, a single fallback line is returned.
func Generate(curr, prev map[string]decimal.Decimal, budgets []BudgetLimit) []string {
	var out []string
	alerted := make(map[string]bool)

	sorted := make([]BudgetLimit, len(budgets))
	copy(sorted, budgets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Category < sorted[j].Category })

	// Tier 1: budget thresholds on current-month spend.
	for _, b := range sorted {
		if b.Category == "" || !b.Limit.IsPositive() {
			continue
		}
		spent, ok := curr[b.Category]
		if !ok {
			continue
		}
		switch {
		case spent.GreaterThan(b.Limit):
			over := spent.Sub(b.Limit)
			out = append(out,
				fmt.Sprintf("You've overspent your %s budget by ₹%s this month.", b.Category, over.StringFixed(2)),
				"Try setting weekly mini-limits to get back on track.")
			alerted[b.Category] = true
		case spent.Equal(b.Limit):
			out = append(out, fmt.Sprintf("You've used 100%% of your %s budget this month.", b.Category))
			alerted[b.Category] = true
		case spent.GreaterThanOrEqual(b.Limit.Mul(eighty)):
			pct := spent.Div(b.Limit).Mul(oneHundred).Round(0).IntPart()
			out = append(out, fmt.Sprintf("You've used %d%% of your %s budget — slow down to stay under the limit.", pct, b.Category))
			alerted[b.Category] = true
		}
	}

	// Tier 2: month-over-month movement for everything Tier 1 left alone.
	categories := make([]string, 0, len(curr)+len(prev))
	seen := make(map[string]bool)
	for cat := range curr {
		if !seen[cat] {
			seen[cat] = true
			categories = append(categories, cat)
		}
	}
	for cat := range prev {
		if !seen[cat] {
			seen[cat] = true
			categories = append(categories, cat)
		}
	}
	sort.Strings(categories)

	for _, cat := range categories {
		if alerted[cat] {
			continue
		}
		c := curr[cat]
		p := prev[cat]
		switch {
		case c.GreaterThan(p):
			if p.IsPositive() {
				pct := c.Sub(p).Div(p).Mul(oneHundred).Round(0)
				if pct.GreaterThan(fiveHundred) {
					out = append(out, fmt.Sprintf("Dramatic increase: you've spent %s%% more on %s than last month.", pct.String(), cat))
				} else {
					out = append(out, fmt.Sprintf("You've spent %s%% more on %s than last month.", pct.String(), cat))
				}
				out = append(out, fmt.Sprintf("Logging each %s purchase as it happens makes the habit easier to spot.", cat))
			} else {
				out = append(out, fmt.Sprintf("New spending on %s this month (₹%s).", cat, c.StringFixed(0)))
			}
		case p.GreaterThan(c) && c.IsPositive():
			out = append(out,
				fmt.Sprintf("You reduced your %s spending by ₹%s this month.", cat, p.Sub(c).StringFixed(0)),
				"Great job — keep it up!")
		case c.IsZero() && p.IsPositive():
			out = append(out,
				fmt.Sprintf("You didn't spend anything on %s this month (₹%s last month).", cat, p.StringFixed(0)),
				fmt.Sprintf("Was cutting %s intentional? If not, double-check your logs.", cat))
		}
	}

	if len(out) == 0 {
		out = append(out, fallbackLine)
	}
	return out
}
