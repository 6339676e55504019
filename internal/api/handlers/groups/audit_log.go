package groups

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/repositories/sqlconnect"
	"spendtrack/pkg/utils"
)

// FUNC TO GET THE AUDIT LOG FOR A GROUP
func GetGroupAuditLogHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	groupID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid group ID", http.StatusBadRequest)
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

	if requireMembership(ctx, w, db, groupID, userID) == nil {
		return
	}

	// Audit rows carry their own copies of the expense fields, so entries
	// for deleted expenses still render.
	rows, err := db.QueryContext(ctx, `
		SELECT a.id, a.expense_id, u.username, a.action, a.amount, a.description, a.expense_ds, a.timestamp
		FROM expense_audits a
		JOIN users u ON u.id = a.user_id
		WHERE a.group_id = ?
		ORDER BY a.timestamp DESC, a.id DESC LIMIT ? OFFSET ?`, groupID, limit, offset)
	if err != nil {
		utils.Logger.Errorf("failed to fetch audit log for group %d: %v", groupID, err)
		utils.WriteError(w, "failed to fetch audit log", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	type auditRow struct {
		ID          int             `json:"id"`
		ExpenseID   int             `json:"expense_id"`
		Username    string          `json:"username"`
		Action      string          `json:"action"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
		ExpenseDS   string          `json:"expense_ds"`
		Timestamp   string          `json:"timestamp"`
	}

	entries := []auditRow{}
	for rows.Next() {
		var a auditRow
		if err := rows.Scan(&a.ID, &a.ExpenseID, &a.Username, &a.Action, &a.Amount,
			&a.Description, &a.ExpenseDS, &a.Timestamp); err != nil {
			utils.WriteError(w, "failed to fetch audit log", http.StatusInternalServerError)
			return
		}
		entries = append(entries, a)
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"page":   page,
		"limit":  limit,
		"data":   entries,
	})
}
