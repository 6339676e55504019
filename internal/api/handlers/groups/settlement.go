package groups

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"spendtrack/internal/ledger"
	"spendtrack/internal/models"
	"spendtrack/internal/repositories/sqlconnect"
	"spendtrack/pkg/utils"
)

// loadMemberSpends collects every member of the group with their summed
// group expenses and any stored balance override. Members who never logged
// an expense come back with a zero total.
func loadMemberSpends(ctx context.Context, db *sql.DB, groupID int) ([]ledger.MemberSpend, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT u.id, u.username, gm.role, gm.adjusted_balance, COALESCE(SUM(e.amount), 0)
		FROM group_memberships gm
		JOIN users u ON u.id = gm.user_id
		LEFT JOIN expenses e ON e.group_id = gm.group_id AND e.user_id = gm.user_id
		WHERE gm.group_id = ?
		GROUP BY u.id, u.username, gm.role, gm.adjusted_balance
		ORDER BY u.id`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []ledger.MemberSpend
	for rows.Next() {
		var m ledger.MemberSpend
		if err := rows.Scan(&m.UserID, &m.Username, &m.Role, &m.AdjustedBalance, &m.Spent); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// requireMembership resolves the actor's membership for a group, writing the
// error response itself when the group is missing or the actor is outside
// it.
func requireMembership(ctx context.Context, w http.ResponseWriter, db *sql.DB, groupID, userID int) *models.GroupMembership {
	if _, err := fetchGroup(ctx, db, groupID); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			utils.WriteError(w, "group not found", ledger.StatusCode(err))
			return nil
		}
		utils.WriteError(w, "failed to retrieve group", http.StatusInternalServerError)
		return nil
	}

	membership, err := fetchMembership(ctx, db, groupID, userID)
	if err != nil {
		utils.WriteError(w, "failed to verify group membership", http.StatusInternalServerError)
		return nil
	}
	if membership == nil {
		utils.WriteError(w, "you are not a member of this group", ledger.StatusCode(ledger.ErrForbidden))
		return nil
	}
	return membership
}

// FUNC TO GET PER-MEMBER TOTALS FOR A GROUP
func GetGroupSplitHandler(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if requireMembership(ctx, w, db, groupID, userID) == nil {
		return
	}

	members, err := loadMemberSpends(ctx, db, groupID)
	if err != nil {
		utils.Logger.Errorf("failed to load member totals for group %d: %v", groupID, err)
		utils.WriteError(w, "failed to compute split", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   ledger.ComputeTotals(members),
	})
}

// FUNC TO GET OR ADJUST THE SETTLEMENT SUMMARY FOR A GROUP
func SplitSummaryHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getSplitSummary(w, r)
	case http.MethodPut:
		updateSplitSummary(w, r)
	default:
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func getSplitSummary(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if requireMembership(ctx, w, db, groupID, userID) == nil {
		return
	}

	members, err := loadMemberSpends(ctx, db, groupID)
	if err != nil {
		utils.Logger.Errorf("failed to load member totals for group %d: %v", groupID, err)
		utils.WriteError(w, "failed to compute split summary", http.StatusInternalServerError)
		return
	}

	shares, err := ledger.ComputeSplit(members)
	if err != nil {
		utils.WriteError(w, "group has no members to split between", ledger.StatusCode(err))
		return
	}

	type summaryRow struct {
		ledger.MemberShare
		Role string `json:"role"`
	}

	summary := make([]summaryRow, 0, len(shares))
	for i, s := range shares {
		summary = append(summary, summaryRow{MemberShare: s, Role: members[i].Role})
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

func updateSplitSummary(w http.ResponseWriter, r *http.Request) {
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

	type request struct {
		Overrides []ledger.BalanceOverride `json:"overrides"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if len(req.Overrides) == 0 {
		utils.WriteError(w, "no overrides provided", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	membership := requireMembership(ctx, w, db, groupID, userID)
	if membership == nil {
		return
	}
	if membership.Role != models.RoleAdmin {
		utils.WriteError(w, "only group admins can adjust balances", ledger.StatusCode(ledger.ErrForbidden))
		return
	}

	members, err := loadMemberSpends(ctx, db, groupID)
	if err != nil {
		utils.Logger.Errorf("failed to load members for group %d: %v", groupID, err)
		utils.WriteError(w, "failed to update balances", http.StatusInternalServerError)
		return
	}

	// Overrides naming users outside the group are skipped, not rejected:
	// an all-unknown request succeeds with zero updates.
	matched := ledger.MatchOverrides(members, req.Overrides)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	for memberID, balance := range matched {
		_, err := tx.ExecContext(ctx, "UPDATE group_memberships SET adjusted_balance = ? WHERE group_id = ? AND user_id = ?",
			balance, groupID, memberID)
		if err != nil {
			tx.Rollback()
			utils.Logger.Errorf("failed to set balance for user %d in group %d: %v", memberID, groupID, err)
			utils.WriteError(w, "failed to update balances", http.StatusInternalServerError)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to commit transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "balances updated successfully",
		"updated": len(matched),
	})
}
