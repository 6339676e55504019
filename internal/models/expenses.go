package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

const (
	RecurNone    = ""
	RecurWeekly  = "weekly"
	RecurMonthly = "monthly"
)

// ValidRecurrence reports whether a recurrence flag and interval pair is
// consistent. A recurring expense needs a weekly or monthly interval; a
// one-off expense accepts anything since the interval gets reset.
func ValidRecurrence(isRecurring bool, interval string) bool {
	if !isRecurring {
		return true
	}
	return interval == RecurWeekly || interval == RecurMonthly
}

type Expense struct {
	ID                int             `json:"id,omitempty" db:"id,omitempty"`
	UserID            int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	DS                string          `json:"ds,omitempty" db:"ds,omitempty"`
	Amount            decimal.Decimal `json:"amount,omitempty" db:"amount,omitempty"`
	Category          string          `json:"category,omitempty" db:"category,omitempty"`
	Description       string          `json:"description,omitempty" db:"description,omitempty"`
	IsRecurring       bool            `json:"is_recurring,omitempty" db:"is_recurring,omitempty"`
	RecurringInterval string          `json:"recurring_interval,omitempty" db:"recurring_interval,omitempty"`
	GroupID           sql.NullInt64   `json:"group_id,omitempty" db:"group_id,omitempty"`
	CreatedAt         sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
}
