package expenses

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/ledger"
	"spendtrack/internal/models"
	"spendtrack/internal/repositories/sqlconnect"
	"spendtrack/pkg/utils"
)

// fetchMembership loads the actor's membership row for a group, or nil when
// the actor is not a member.
func fetchMembership(ctx context.Context, db *sql.DB, groupID, userID int) (*models.GroupMembership, error) {
	var m models.GroupMembership
	err := db.QueryRowContext(ctx,
		"SELECT id, group_id, user_id, role, adjusted_balance FROM group_memberships WHERE group_id = ? AND user_id = ?",
		groupID, userID).Scan(&m.ID, &m.GroupID, &m.UserID, &m.Role, &m.AdjustedBalance)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FUNC TO CREATE AN EXPENSE
func CreateExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
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

	type request struct {
		DS                string          `json:"ds"`
		Amount            decimal.Decimal `json:"amount"`
		Category          string          `json:"category"`
		Description       string          `json:"description"`
		IsRecurring       bool            `json:"is_recurring"`
		RecurringInterval string          `json:"recurring_interval"`
		GroupID           *int            `json:"group_id"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		utils.WriteError(w, "amount must be greater than 0", http.StatusBadRequest)
		return
	}
	if req.Category == "" {
		utils.WriteError(w, "category is required", http.StatusBadRequest)
		return
	}
	if _, err := time.Parse("2006-01-02", req.DS); err != nil {
		utils.WriteError(w, "ds must be a date in YYYY-MM-DD format", http.StatusBadRequest)
		return
	}
	if !models.ValidRecurrence(req.IsRecurring, req.RecurringInterval) {
		utils.WriteError(w, "recurring_interval must be weekly or monthly", http.StatusBadRequest)
		return
	}
	if !req.IsRecurring {
		req.RecurringInterval = models.RecurNone
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	expense := models.Expense{
		UserID:            userID,
		DS:                req.DS,
		Amount:            req.Amount,
		Category:          req.Category,
		Description:       req.Description,
		IsRecurring:       req.IsRecurring,
		RecurringInterval: req.RecurringInterval,
	}

	if req.GroupID != nil {
		var exists bool
		err := db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM groups WHERE id = ?)", *req.GroupID).Scan(&exists)
		if err != nil {
			utils.WriteError(w, "failed to retrieve group", http.StatusInternalServerError)
			return
		}
		if !exists {
			utils.WriteError(w, "group not found", ledger.StatusCode(ledger.ErrNotFound))
			return
		}

		membership, err := fetchMembership(ctx, db, *req.GroupID, userID)
		if err != nil {
			utils.WriteError(w, "failed to verify group membership", http.StatusInternalServerError)
			return
		}
		if membership == nil {
			utils.WriteError(w, "you are not a member of this group", ledger.StatusCode(ledger.ErrForbidden))
			return
		}
		expense.GroupID = sql.NullInt64{Int64: int64(*req.GroupID), Valid: true}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO expenses (user_id, ds, amount, category, description, is_recurring, recurring_interval, group_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.UserID, expense.DS, expense.Amount, expense.Category, expense.Description,
		expense.IsRecurring, expense.RecurringInterval, expense.GroupID, time.Now().Format("2006-01-02 15:04:05"))
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to insert expense: %v", err)
		utils.WriteError(w, "failed to create expense", http.StatusInternalServerError)
		return
	}

	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		utils.WriteError(w, "failed to create expense", http.StatusInternalServerError)
		return
	}
	expense.ID = int(id)

	if err := recordExpenseAudit(ctx, tx, &expense, models.AuditCreated); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to record audit for expense %d: %v", expense.ID, err)
		utils.WriteError(w, "failed to create expense", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to commit transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSONStatus(w, map[string]interface{}{
		"status":  "success",
		"message": "expense created successfully",
		"data":    expense,
	}, http.StatusCreated)
}

// FUNC TO LIST OWN EXPENSES
func GetExpensesHandler(w http.ResponseWriter, r *http.Request) {
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

	page, limit := utils.GetPaginationParams(r)
	offset := (page - 1) * limit

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	query := `SELECT id, user_id, ds, amount, category, description, is_recurring, recurring_interval, group_id, created_at
		FROM expenses WHERE user_id = ?`
	args := []interface{}{userID}

	if category := r.URL.Query().Get("category"); category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	if month := r.URL.Query().Get("month"); month != "" {
		if _, err := time.Parse("2006-01", month); err != nil {
			utils.WriteError(w, "month must be in YYYY-MM format", http.StatusBadRequest)
			return
		}
		query += " AND ds LIKE ?"
		args = append(args, month+"%")
	}

	query += " ORDER BY ds DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		utils.Logger.Errorf("failed to fetch expenses: %v", err)
		utils.WriteError(w, "failed to fetch expenses", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	expenseList := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.DS, &e.Amount, &e.Category, &e.Description,
			&e.IsRecurring, &e.RecurringInterval, &e.GroupID, &e.CreatedAt); err != nil {
			utils.WriteError(w, "failed to fetch expenses", http.StatusInternalServerError)
			return
		}
		expenseList = append(expenseList, e)
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"page":   page,
		"limit":  limit,
		"data":   expenseList,
	})
}

// FUNC TO UPDATE AN EXPENSE
func UpdateExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
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

	expenseID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid expense id", http.StatusBadRequest)
		return
	}

	type request struct {
		DS                *string          `json:"ds"`
		Amount            *decimal.Decimal `json:"amount"`
		Category          *string          `json:"category"`
		Description       *string          `json:"description"`
		IsRecurring       *bool            `json:"is_recurring"`
		RecurringInterval *string          `json:"recurring_interval"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var expense models.Expense
	err = db.QueryRowContext(ctx, `
		SELECT id, user_id, ds, amount, category, description, is_recurring, recurring_interval, group_id
		FROM expenses WHERE id = ?`, expenseID).
		Scan(&expense.ID, &expense.UserID, &expense.DS, &expense.Amount, &expense.Category,
			&expense.Description, &expense.IsRecurring, &expense.RecurringInterval, &expense.GroupID)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to retrieve expense", http.StatusInternalServerError)
		return
	}

	var membership *models.GroupMembership
	if expense.GroupID.Valid {
		membership, err = fetchMembership(ctx, db, int(expense.GroupID.Int64), userID)
		if err != nil {
			utils.WriteError(w, "failed to verify group membership", http.StatusInternalServerError)
			return
		}
	}

	if !ledger.CanMutateExpense(userID, expense.UserID, expense.GroupID, membership) {
		utils.WriteError(w, "you cannot modify this expense", ledger.StatusCode(ledger.ErrForbidden))
		return
	}

	if req.DS != nil {
		if _, err := time.Parse("2006-01-02", *req.DS); err != nil {
			utils.WriteError(w, "ds must be a date in YYYY-MM-DD format", http.StatusBadRequest)
			return
		}
		expense.DS = *req.DS
	}
	if req.Amount != nil {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			utils.WriteError(w, "amount must be greater than 0", http.StatusBadRequest)
			return
		}
		expense.Amount = *req.Amount
	}
	if req.Category != nil {
		if *req.Category == "" {
			utils.WriteError(w, "category cannot be blank", http.StatusBadRequest)
			return
		}
		expense.Category = *req.Category
	}
	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.IsRecurring != nil {
		expense.IsRecurring = *req.IsRecurring
	}
	if req.RecurringInterval != nil {
		expense.RecurringInterval = *req.RecurringInterval
	}
	// Validate the recurrence pair after both fields have settled, so a
	// request may flip is_recurring and set the interval in one call.
	if !models.ValidRecurrence(expense.IsRecurring, expense.RecurringInterval) {
		utils.WriteError(w, "recurring_interval must be weekly or monthly", http.StatusBadRequest)
		return
	}
	if !expense.IsRecurring {
		expense.RecurringInterval = models.RecurNone
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE expenses SET ds = ?, amount = ?, category = ?, description = ?, is_recurring = ?, recurring_interval = ? WHERE id = ?",
		expense.DS, expense.Amount, expense.Category, expense.Description,
		expense.IsRecurring, expense.RecurringInterval, expense.ID)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to update expense %d: %v", expense.ID, err)
		utils.WriteError(w, "failed to update expense", http.StatusInternalServerError)
		return
	}

	if err := recordExpenseAudit(ctx, tx, &expense, models.AuditUpdated); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to record audit for expense %d: %v", expense.ID, err)
		utils.WriteError(w, "failed to update expense", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to commit transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "expense updated successfully",
		"data":    expense,
	})
}

// FUNC TO DELETE AN EXPENSE
func DeleteExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
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

	expenseID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid expense id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var expense models.Expense
	err = db.QueryRowContext(ctx, `
		SELECT id, user_id, ds, amount, category, description, group_id
		FROM expenses WHERE id = ?`, expenseID).
		Scan(&expense.ID, &expense.UserID, &expense.DS, &expense.Amount, &expense.Category,
			&expense.Description, &expense.GroupID)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to retrieve expense", http.StatusInternalServerError)
		return
	}

	var membership *models.GroupMembership
	if expense.GroupID.Valid {
		membership, err = fetchMembership(ctx, db, int(expense.GroupID.Int64), userID)
		if err != nil {
			utils.WriteError(w, "failed to verify group membership", http.StatusInternalServerError)
			return
		}
	}

	if !ledger.CanMutateExpense(userID, expense.UserID, expense.GroupID, membership) {
		utils.WriteError(w, "you cannot modify this expense", ledger.StatusCode(ledger.ErrForbidden))
		return
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Audit first so the row captures the expense's final values.
	if err := recordExpenseAudit(ctx, tx, &expense, models.AuditDeleted); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to record audit for expense %d: %v", expense.ID, err)
		utils.WriteError(w, "failed to delete expense", http.StatusInternalServerError)
		return
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expense.ID); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to delete expense %d: %v", expense.ID, err)
		utils.WriteError(w, "failed to delete expense", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to commit transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "expense deleted successfully",
	})
}

// FUNC TO LIST THE ACTOR'S FULL SPENDING SERIES
// Unlike the paginated listing, this returns every live expense the user has,
// oldest first, so forecasting clients get the whole time series in one call.
func HistoricalExpensesHandler(w http.ResponseWriter, r *http.Request) {
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

	rows, err := db.QueryContext(ctx, `
		SELECT id, ds, amount, category, description, is_recurring, recurring_interval
		FROM expenses WHERE user_id = ?
		ORDER BY ds ASC, id ASC`, userID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch expense history: %v", err)
		utils.WriteError(w, "failed to fetch expense history", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	type historicalRow struct {
		ID                int             `json:"id"`
		DS                string          `json:"ds"`
		Amount            decimal.Decimal `json:"amount"`
		Category          string          `json:"category"`
		Description       string          `json:"description"`
		IsRecurring       bool            `json:"is_recurring"`
		RecurringInterval string          `json:"recurring_interval"`
	}

	historical := []historicalRow{}
	for rows.Next() {
		var h historicalRow
		if err := rows.Scan(&h.ID, &h.DS, &h.Amount, &h.Category, &h.Description,
			&h.IsRecurring, &h.RecurringInterval); err != nil {
			utils.WriteError(w, "failed to fetch expense history", http.StatusInternalServerError)
			return
		}
		historical = append(historical, h)
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":     "success",
		"historical": historical,
	})
}
