package expenses

import (
	"context"
	"database/sql"
	"time"

	"spendtrack/internal/models"
)

// recordExpenseAudit appends an audit row inside the caller's transaction so
// the mutation and its history entry commit or roll back together. The
// expense's amount, description, date and group are copied into the row.
func recordExpenseAudit(ctx context.Context, tx *sql.Tx, e *models.Expense, action string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO expense_audits (expense_id, user_id, group_id, action, amount, description, expense_ds, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.GroupID, action, e.Amount, e.Description, e.DS, time.Now().Format("2006-01-02 15:04:05"))
	return err
}
