package budgets

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/models"
	"spendtrack/internal/repositories/sqlconnect"
	"spendtrack/pkg/utils"
)

// upsertBudget stores a per-category limit for a user, replacing any
// existing limit for the same category.
func upsertBudget(ctx context.Context, db *sql.DB, userID int, category string, limit decimal.Decimal) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO budgets (user_id, category, limit_amount)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE limit_amount = VALUES(limit_amount)`,
		userID, category, limit)
	return err
}

// FUNC TO SET A CATEGORY BUDGET
func SetBudgetHandler(w http.ResponseWriter, r *http.Request) {
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
		Category string          `json:"category"`
		Limit    decimal.Decimal `json:"limit"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		utils.WriteError(w, "category is required", http.StatusBadRequest)
		return
	}
	if !req.Limit.IsPositive() {
		utils.WriteError(w, "limit must be greater than 0", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := upsertBudget(ctx, db, userID, req.Category, req.Limit); err != nil {
		utils.Logger.Errorf("failed to set budget for user %d: %v", userID, err)
		utils.WriteError(w, "failed to set budget", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "budget saved successfully",
		"data": map[string]interface{}{
			"category": req.Category,
			"limit":    req.Limit,
		},
	})
}

// FUNC TO LIST THE ACTOR'S BUDGETS
func GetBudgetsHandler(w http.ResponseWriter, r *http.Request) {
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

	rows, err := db.QueryContext(ctx,
		"SELECT id, user_id, category, limit_amount FROM budgets WHERE user_id = ? ORDER BY category", userID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch budgets: %v", err)
		utils.WriteError(w, "failed to fetch budgets", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	budgetList := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Limit); err != nil {
			utils.WriteError(w, "failed to fetch budgets", http.StatusInternalServerError)
			return
		}
		budgetList = append(budgetList, b)
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   budgetList,
	})
}

// FUNC TO SET OR GET THE OVERALL MONTHLY BUDGET
func MonthlyBudgetHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		setMonthlyBudget(w, r)
	case http.MethodGet:
		getMonthlyBudget(w, r)
	default:
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func setMonthlyBudget(w http.ResponseWriter, r *http.Request) {
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
		Limit decimal.Decimal `json:"limit"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if !req.Limit.IsPositive() {
		utils.WriteError(w, "limit must be greater than 0", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := upsertBudget(ctx, db, userID, models.MonthlyBudgetCategory, req.Limit); err != nil {
		utils.Logger.Errorf("failed to set monthly budget for user %d: %v", userID, err)
		utils.WriteError(w, "failed to set monthly budget", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "monthly budget saved successfully",
		"data": map[string]interface{}{
			"limit": req.Limit,
		},
	})
}

func getMonthlyBudget(w http.ResponseWriter, r *http.Request) {
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

	var limit decimal.Decimal
	err := db.QueryRowContext(ctx,
		"SELECT limit_amount FROM budgets WHERE user_id = ? AND category = ?",
		userID, models.MonthlyBudgetCategory).Scan(&limit)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "no monthly budget set", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to fetch monthly budget", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"limit": limit,
		},
	})
}
