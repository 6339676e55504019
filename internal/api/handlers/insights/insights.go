package insights

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/ledger"
	"spendtrack/internal/models"
	"spendtrack/internal/repositories/sqlconnect"
	"spendtrack/pkg/utils"
)

// categoryTotals sums a user's spending per category for one calendar month.
func categoryTotals(ctx context.Context, db *sql.DB, userID, year int, month time.Month) (map[string]decimal.Decimal, error) {
	prefix := fmt.Sprintf("%04d-%02d", year, month)
	rows, err := db.QueryContext(ctx,
		"SELECT category, COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = ? AND ds LIKE ? GROUP BY category",
		userID, prefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var category string
		var total decimal.Decimal
		if err := rows.Scan(&category, &total); err != nil {
			return nil, err
		}
		totals[category] = total
	}
	return totals, rows.Err()
}

// loadBudgets returns the user's per-category limits. The overall monthly
// budget is handled by the notification sweep, not the suggestion ladder.
func loadBudgets(ctx context.Context, db *sql.DB, userID int) ([]ledger.BudgetLimit, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT category, limit_amount FROM budgets WHERE user_id = ? AND category != ?",
		userID, models.MonthlyBudgetCategory)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []ledger.BudgetLimit
	for rows.Next() {
		var b ledger.BudgetLimit
		if err := rows.Scan(&b.Category, &b.Limit); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// FUNC TO GET SPENDING SUGGESTIONS
func GetSuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := int(idFloat)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	now := time.Now()
	prevYear, prevMonth := ledger.PriorMonth(now)

	curr, err := categoryTotals(ctx, db, userID, now.Year(), now.Month())
	if err != nil {
		utils.Logger.Errorf("failed to load current month totals: %v", err)
		utils.WriteError(w, "failed to compute suggestions", http.StatusInternalServerError)
		return
	}

	prev, err := categoryTotals(ctx, db, userID, prevYear, prevMonth)
	if err != nil {
		utils.Logger.Errorf("failed to load prior month totals: %v", err)
		utils.WriteError(w, "failed to compute suggestions", http.StatusInternalServerError)
		return
	}

	budgets, err := loadBudgets(ctx, db, userID)
	if err != nil {
		utils.Logger.Errorf("failed to load budgets: %v", err)
		utils.WriteError(w, "failed to compute suggestions", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":      "success",
		"suggestions": ledger.Generate(curr, prev, budgets),
	})
}

// FUNC TO GET DUE REMINDERS AND BUDGET NOTIFICATIONS
func GetNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := int(idFloat)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	now := time.Now()
	notifications := []string{}

	var limit decimal.Decimal
	err := db.QueryRowContext(ctx,
		"SELECT limit_amount FROM budgets WHERE user_id = ? AND category = ?",
		userID, models.MonthlyBudgetCategory).Scan(&limit)
	if err != nil && err != sql.ErrNoRows {
		utils.WriteError(w, "failed to fetch notifications", http.StatusInternalServerError)
		return
	}

	if err == nil {
		prefix := fmt.Sprintf("%04d-%02d", now.Year(), now.Month())
		var monthToDate decimal.Decimal
		err := db.QueryRowContext(ctx,
			"SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = ? AND ds LIKE ?",
			userID, prefix+"%").Scan(&monthToDate)
		if err != nil {
			utils.WriteError(w, "failed to fetch notifications", http.StatusInternalServerError)
			return
		}
		notifications = append(notifications, ledger.OverspendingAlerts(monthToDate, limit, now)...)
	}

	rows, err := db.QueryContext(ctx,
		"SELECT description, ds, recurring_interval FROM expenses WHERE user_id = ? AND is_recurring = TRUE",
		userID)
	if err != nil {
		utils.WriteError(w, "failed to fetch notifications", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	var recurring []ledger.RecurringExpense
	for rows.Next() {
		var description, ds, interval string
		if err := rows.Scan(&description, &ds, &interval); err != nil {
			utils.WriteError(w, "failed to fetch notifications", http.StatusInternalServerError)
			return
		}
		parsed, err := time.Parse("2006-01-02", ds)
		if err != nil {
			continue
		}
		recurring = append(recurring, ledger.RecurringExpense{
			UserID:      userID,
			Description: description,
			DS:          parsed,
			Interval:    interval,
		})
	}

	for _, reminder := range ledger.DueReminders(recurring, now) {
		notifications = append(notifications, reminder.Message)
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":        "success",
		"notifications": notifications,
	})
}
