package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// MonthlyBudgetCategory is the reserved category holding a user's overall
// monthly budget.
const MonthlyBudgetCategory = "Monthly"

type Budget struct {
	ID        int             `json:"id,omitempty" db:"id,omitempty"`
	UserID    int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	Category  string          `json:"category,omitempty" db:"category,omitempty"`
	Limit     decimal.Decimal `json:"limit,omitempty" db:"limit_amount,omitempty"`
	StartDate sql.NullString  `json:"start_date,omitempty" db:"start_date,omitempty"`
	EndDate   sql.NullString  `json:"end_date,omitempty" db:"end_date,omitempty"`
}
