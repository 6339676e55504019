package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

const (
	AuditCreated = "created"
	AuditUpdated = "updated"
	AuditDeleted = "deleted"
)

// ExpenseAudit rows are append-only. Amount, description, expense date and
// group are copied from the expense at write time so the history stays
// readable after the expense itself is deleted.
type ExpenseAudit struct {
	ID          int             `json:"id,omitempty" db:"id,omitempty"`
	ExpenseID   int             `json:"expense_id,omitempty" db:"expense_id,omitempty"`
	UserID      int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	GroupID     sql.NullInt64   `json:"group_id,omitempty" db:"group_id,omitempty"`
	Action      string          `json:"action,omitempty" db:"action,omitempty"`
	Amount      decimal.Decimal `json:"amount,omitempty" db:"amount,omitempty"`
	Description string          `json:"description,omitempty" db:"description,omitempty"`
	ExpenseDS   string          `json:"expense_ds,omitempty" db:"expense_ds,omitempty"`
	Timestamp   sql.NullString  `json:"timestamp,omitempty" db:"timestamp,omitempty"`
}
