package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/models"
)

// RecurringExpense is the slice of an expense the reminder sweep needs.
type RecurringExpense struct {
	UserID      int
	Description string
	DS          time.Time
	Interval    string
}

// Reminder is a due-today notification for one user.
type Reminder struct {
	UserID  int    `json:"user_id"`
	Message string `json:"message"`
}

// DueReminders returns a reminder for every recurring expense due on asOf:
// monthly expenses on the matching day of month, weekly ones on the
// matching weekday.
func DueReminders(expenses []RecurringExpense, asOf time.Time) []Reminder {
	var due []Reminder
	for _, e := range expenses {
		switch e.Interval {
		case models.RecurMonthly:
			if e.DS.Day() == asOf.Day() {
				due = append(due, Reminder{
					UserID:  e.UserID,
					Message: fmt.Sprintf("Reminder: recurring expense due today - %s", e.Description),
				})
			}
		case models.RecurWeekly:
			if e.DS.Weekday() == asOf.Weekday() {
				due = append(due, Reminder{
					UserID:  e.UserID,
					Message: fmt.Sprintf("Reminder: weekly expense due today - %s", e.Description),
				})
			}
		}
	}
	return due
}

var half = decimal.NewFromFloat(0.5)

// OverspendingAlerts checks month-to-date spend against the user's overall
// monthly limit. Two independent alerts can fire: the 80% threshold, and an
// early warning when half the budget is gone within the first five days.
// Callers with no Monthly budget simply skip the call.
func OverspendingAlerts(monthToDate, limit decimal.Decimal, asOf time.Time) []string {
	if !limit.IsPositive() {
		return nil
	}

	var alerts []string
	if monthToDate.GreaterThanOrEqual(limit.Mul(eighty)) {
		pct := monthToDate.Div(limit).Mul(oneHundred).Round(0).IntPart()
		alerts = append(alerts, fmt.Sprintf("You've used %d%% of your monthly budget (₹%s of ₹%s).",
			pct, monthToDate.StringFixed(2), limit.StringFixed(2)))
	}
	if asOf.Day() <= 5 && monthToDate.GreaterThanOrEqual(limit.Mul(half)) {
		alerts = append(alerts, fmt.Sprintf("Rapid spending: ₹%s of your monthly budget is already gone and it's only day %d.",
			monthToDate.StringFixed(2), asOf.Day()))
	}
	return alerts
}
