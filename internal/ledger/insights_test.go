package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func spend(pairs ...string) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal)
	for i := 0; i < len(pairs); i += 2 {
		m[pairs[i]] = dec(pairs[i+1])
	}
	return m
}

func containsLine(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		curr     map[string]decimal.Decimal
		prev     map[string]decimal.Decimal
		budgets  []BudgetLimit
		validate func(t *testing.T, out []string)
	}{
		{
			name: "new spend with no budget suppresses fallback",
			curr: spend("Food", "100"),
			prev: spend(),
			validate: func(t *testing.T, out []string) {
				if !containsLine(out, "New spending on Food") {
					t.Errorf("missing new-spend line, got %v", out)
				}
				if containsLine(out, "No major changes") {
					t.Errorf("fallback should be absent, got %v", out)
				}
			},
		},
		{
			name: "spend exactly at limit is the 100% tier, not overspend",
			curr: spend("Food", "100"),
			prev: spend("Food", "20"),
			budgets: []BudgetLimit{
				{Category: "Food", Limit: dec("100")},
			},
			validate: func(t *testing.T, out []string) {
				if !containsLine(out, "used 100% of your Food budget") {
					t.Errorf("missing 100%% line, got %v", out)
				}
				if containsLine(out, "overspent") {
					t.Errorf("overspend tier must not fire at exactly the limit: %v", out)
				}
				// Tier 1 fired for Food, so no month-over-month line for it.
				if containsLine(out, "more on Food") {
					t.Errorf("tier 2 must be suppressed for Food: %v", out)
				}
			},
		},
		{
			name: "overspend reports the overage and a follow-up",
			curr: spend("Travel", "120"),
			prev: spend(),
			budgets: []BudgetLimit{
				{Category: "Travel", Limit: dec("100")},
			},
			validate: func(t *testing.T, out []string) {
				if !containsLine(out, "overspent your Travel budget by ₹20.00") {
					t.Errorf("missing overspend line, got %v", out)
				}
				if len(out) < 2 {
					t.Fatalf("expected a follow-up suggestion, got %v", out)
				}
			},
		},
		{
			name: "80 percent warning",
			curr: spend("Food", "85"),
			prev: spend(),
			budgets: []BudgetLimit{
				{Category: "Food", Limit: dec("100")},
			},
			validate: func(t *testing.T, out []string) {
				if !containsLine(out, "used 85% of your Food budget") {
					t.Errorf("missing 80%% warning, got %v", out)
				}
			},
		},
		{
			name: "below 80 percent falls through to tier 2",
			curr: spend("Food", "60"),
			prev: spend("Food", "30"),
			budgets: []BudgetLimit{
				{Category: "Food", Limit: dec("100")},
			},
			validate: func(t *testing.T, out []string) {
				if !containsLine(out, "100% more on Food") {
					t.Errorf("missing month-over-month line, got %v", out)
				}
			},
		},
		{
			name: "dramatic increase above 500 percent",
			curr: spend("Gadgets", "70"),
			prev: spend("Gadgets", "10"),
			validate: func(t *testing.T, out []string) {
				if !containsLine(out, "Dramatic increase") {
					t.Errorf("missing dramatic line, got %v", out)
				}
			},
		},
		{
			name: "reduced spending praises",
			curr: spend("Food", "40"),
			prev: spend("Food", "100"),
			validate: func(t *testing.T, out []string) {
				if !containsLine(out, "reduced your Food spending by ₹60") {
					t.Errorf("missing reduction line, got %v", out)
				}
			},
		},
		{
			name: "stopped spending asks about intent",
			curr: spend(),
			prev: spend("Cinema", "75"),
			validate: func(t *testing.T, out []string) {
				if !containsLine(out, "didn't spend anything on Cinema") {
					t.Errorf("missing stopped line, got %v", out)
				}
				if !containsLine(out, "intentional") {
					t.Errorf("missing intent question, got %v", out)
				}
			},
		},
		{
			name: "flat months emit exactly the fallback",
			curr: spend(),
			prev: spend(),
			validate: func(t *testing.T, out []string) {
				if len(out) != 1 || out[0] != fallbackLine {
					t.Errorf("want only the fallback, got %v", out)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, Generate(tt.curr, tt.prev, tt.budgets))
		})
	}
}

// A category alerted in Tier 1 never also appears in Tier 2 output, whatever
// the month-over-month movement was.
func TestGenerateTierExclusion(t *testing.T) {
	curr := spend("Food", "150", "Fuel", "50")
	prev := spend("Food", "10", "Fuel", "10")
	budgets := []BudgetLimit{{Category: "Food", Limit: dec("100")}}

	out := Generate(curr, prev, budgets)

	if !containsLine(out, "overspent your Food budget") {
		t.Fatalf("tier 1 should fire for Food: %v", out)
	}
	for _, l := range out {
		if strings.Contains(l, "more on Food") || strings.Contains(l, "increase: you've spent") && strings.Contains(l, "Food") {
			t.Errorf("tier 2 line leaked for Food: %q", l)
		}
	}
	// Fuel had no budget, so its movement still reports.
	if !containsLine(out, "more on Fuel") {
		t.Errorf("Fuel month-over-month line missing: %v", out)
	}
}

func TestPriorMonth(t *testing.T) {
	tests := []struct {
		asOf      time.Time
		wantYear  int
		wantMonth time.Month
	}{
		{time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), 2024, time.December},
		{time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), 2025, time.February},
		{time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), 2025, time.November},
	}
	for _, tt := range tests {
		y, m := PriorMonth(tt.asOf)
		if y != tt.wantYear || m != tt.wantMonth {
			t.Errorf("PriorMonth(%s) = %d-%s, want %d-%s", tt.asOf.Format("2006-01"), y, m, tt.wantYear, tt.wantMonth)
		}
	}
}
