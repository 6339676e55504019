package groups

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
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

// fetchGroup loads a group, reporting a missing one as ledger.ErrNotFound
// so callers can map it with ledger.StatusCode.
func fetchGroup(ctx context.Context, db *sql.DB, groupID int) (*models.Group, error) {
	var g models.Group
	err := db.QueryRowContext(ctx, "SELECT id, name, created_by, created_at FROM groups WHERE id = ?", groupID).
		Scan(&g.ID, &g.Name, &g.CreatedBy, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %d: %w", groupID, ledger.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// FUNC TO CREATE A GROUP
func CreateGroupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
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

	var newGroup models.Group
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&newGroup); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	newGroup.Name = strings.TrimSpace(newGroup.Name)
	if newGroup.Name == "" {
		utils.WriteError(w, "group name is required", http.StatusBadRequest)
		return
	}
	if len(newGroup.Name) > 100 {
		utils.WriteError(w, "group name too long", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	res, err := tx.ExecContext(ctx, "INSERT INTO groups (name, created_by) VALUES (?, ?)", newGroup.Name, userID)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to create group: %v", err)
		utils.WriteError(w, "failed to create group, try again later!", http.StatusInternalServerError)
		return
	}

	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to get last inserted ID: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	_, err = tx.ExecContext(ctx, "INSERT INTO group_memberships (group_id, user_id, role) VALUES (?, ?, 'admin')", id, userID)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to assign group admin: %v", err)
		utils.WriteError(w, "failed to assign group admin", http.StatusInternalServerError)
		return
	}

	if err = tx.Commit(); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to commit transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSONStatus(w, map[string]interface{}{
		"status":  "success",
		"message": "Group created successfully",
		"data": map[string]interface{}{
			"group_id":   id,
			"group_name": newGroup.Name,
			"role":       models.RoleAdmin,
		},
	}, http.StatusCreated)
}

// FUNC TO GET ALL GROUPS THE LOGGED-IN USER BELONGS TO
func GetMyGroupsHandler(w http.ResponseWriter, r *http.Request) {
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
		SELECT g.id, g.name, g.created_by, gm.role
		FROM groups g
		JOIN group_memberships gm ON gm.group_id = g.id
		WHERE gm.user_id = ?
		ORDER BY g.id`, userID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch groups: %v", err)
		utils.WriteError(w, "failed to fetch groups", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	type groupRow struct {
		ID        int    `json:"id"`
		Name      string `json:"name"`
		CreatedBy int    `json:"created_by"`
		Role      string `json:"role"`
	}

	groupList := []groupRow{}
	for rows.Next() {
		var g groupRow
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedBy, &g.Role); err != nil {
			utils.WriteError(w, "failed to fetch groups", http.StatusInternalServerError)
			return
		}
		groupList = append(groupList, g)
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   groupList,
	})
}

// FUNC TO LIST GROUP MEMBERS
func GetGroupMembersHandler(w http.ResponseWriter, r *http.Request) {
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

	if _, err := fetchGroup(ctx, db, groupID); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			utils.WriteError(w, "group not found", ledger.StatusCode(err))
			return
		}
		utils.WriteError(w, "failed to retrieve group", http.StatusInternalServerError)
		return
	}

	membership, err := fetchMembership(ctx, db, groupID, userID)
	if err != nil {
		utils.WriteError(w, "failed to verify group membership", http.StatusInternalServerError)
		return
	}
	if membership == nil {
		utils.WriteError(w, "you are not a member of this group", ledger.StatusCode(ledger.ErrForbidden))
		return
	}

	rows, err := db.QueryContext(ctx, `
		SELECT u.id, u.username, gm.role, gm.joined_at
		FROM group_memberships gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = ?
		ORDER BY gm.id`, groupID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch group members: %v", err)
		utils.WriteError(w, "failed to fetch group members", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	type memberRow struct {
		UserID   int            `json:"user_id"`
		Username string         `json:"username"`
		Role     string         `json:"role"`
		JoinedAt sql.NullString `json:"joined_at,omitempty"`
	}

	memberList := []memberRow{}
	for rows.Next() {
		var m memberRow
		if err := rows.Scan(&m.UserID, &m.Username, &m.Role, &m.JoinedAt); err != nil {
			utils.WriteError(w, "failed to fetch group members", http.StatusInternalServerError)
			return
		}
		memberList = append(memberList, m)
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   memberList,
	})
}

// FUNC TO LIST A GROUP'S EXPENSES
func GetGroupExpensesHandler(w http.ResponseWriter, r *http.Request) {
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

	if _, err := fetchGroup(ctx, db, groupID); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			utils.WriteError(w, "group not found", ledger.StatusCode(err))
			return
		}
		utils.WriteError(w, "failed to retrieve group", http.StatusInternalServerError)
		return
	}

	membership, err := fetchMembership(ctx, db, groupID, userID)
	if err != nil {
		utils.WriteError(w, "failed to verify group membership", http.StatusInternalServerError)
		return
	}
	if membership == nil {
		utils.WriteError(w, "you are not a member of this group", ledger.StatusCode(ledger.ErrForbidden))
		return
	}

	rows, err := db.QueryContext(ctx, `
		SELECT e.id, e.user_id, u.username, e.ds, e.amount, e.category, e.description, e.is_recurring, e.recurring_interval
		FROM expenses e
		JOIN users u ON u.id = e.user_id
		WHERE e.group_id = ?
		ORDER BY e.ds DESC, e.id DESC`, groupID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch group expenses: %v", err)
		utils.WriteError(w, "failed to fetch group expenses", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	type expenseRow struct {
		ID                int             `json:"id"`
		UserID            int             `json:"user_id"`
		Username          string          `json:"username"`
		DS                string          `json:"ds"`
		Amount            decimal.Decimal `json:"amount"`
		Category          string          `json:"category"`
		Description       string          `json:"description"`
		IsRecurring       bool            `json:"is_recurring"`
		RecurringInterval string          `json:"recurring_interval"`
		IsAuthorised      bool            `json:"is_authorised"`
	}

	expenseList := []expenseRow{}
	for rows.Next() {
		var e expenseRow
		if err := rows.Scan(&e.ID, &e.UserID, &e.Username, &e.DS, &e.Amount, &e.Category, &e.Description, &e.IsRecurring, &e.RecurringInterval); err != nil {
			utils.WriteError(w, "failed to fetch group expenses", http.StatusInternalServerError)
			return
		}
		// Flag rows the caller may edit or delete: their own expenses, or
		// any row when they hold the admin role.
		e.IsAuthorised = ledger.CanMutateExpense(userID, e.UserID,
			sql.NullInt64{Int64: int64(groupID), Valid: true}, membership)
		expenseList = append(expenseList, e)
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   expenseList,
	})
}

// FUNC TO INVITE A MEMBER TO A GROUP
func InviteMemberHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
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

	type request struct {
		Username string `json:"username"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Username == "" {
		utils.WriteError(w, "username is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := fetchGroup(ctx, db, groupID); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			utils.WriteError(w, "group not found", ledger.StatusCode(err))
			return
		}
		utils.WriteError(w, "failed to retrieve group", http.StatusInternalServerError)
		return
	}

	membership, err := fetchMembership(ctx, db, groupID, userID)
	if err != nil {
		utils.WriteError(w, "failed to verify group membership", http.StatusInternalServerError)
		return
	}
	if !ledger.CanInvite(membership, groupID) {
		utils.WriteError(w, "only group admins can invite members", ledger.StatusCode(ledger.ErrForbidden))
		return
	}

	var inviteeID int
	err = db.QueryRowContext(ctx, "SELECT id FROM users WHERE username = ?", req.Username).Scan(&inviteeID)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "user not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to look up user", http.StatusInternalServerError)
		return
	}

	_, err = db.ExecContext(ctx, "INSERT INTO group_memberships (group_id, user_id, role) VALUES (?, ?, 'member')", groupID, inviteeID)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, "user is already a member of this group", ledger.StatusCode(ledger.ErrConflict))
			return
		}
		utils.Logger.Errorf("failed to add member to group %d: %v", groupID, err)
		utils.WriteError(w, "failed to add member", http.StatusInternalServerError)
		return
	}

	utils.WriteJSONStatus(w, map[string]interface{}{
		"status":  "success",
		"message": "member added to group",
		"data": map[string]interface{}{
			"group_id": groupID,
			"username": req.Username,
			"role":     models.RoleMember,
		},
	}, http.StatusCreated)
}

// FUNC TO REMOVE A MEMBER FROM A GROUP
func RemoveGroupMemberHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
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

	type request struct {
		Username string `json:"username"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Username == "" {
		utils.WriteError(w, "username is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	group, err := fetchGroup(ctx, db, groupID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			utils.WriteError(w, "group not found", ledger.StatusCode(err))
			return
		}
		utils.WriteError(w, "failed to retrieve group", http.StatusInternalServerError)
		return
	}

	if group.CreatedBy != userID {
		utils.WriteError(w, "only the group creator can remove members", http.StatusForbidden)
		return
	}

	var targetID int
	err = db.QueryRowContext(ctx, "SELECT id FROM users WHERE username = ?", req.Username).Scan(&targetID)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "user not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to look up user", http.StatusInternalServerError)
		return
	}

	if targetID == userID {
		utils.WriteError(w, "you cannot remove yourself from your own group", ledger.StatusCode(ledger.ErrInvalidInput))
		return
	}

	res, err := db.ExecContext(ctx, "DELETE FROM group_memberships WHERE group_id = ? AND user_id = ?", groupID, targetID)
	if err != nil {
		utils.Logger.Errorf("failed to remove member from group %d: %v", groupID, err)
		utils.WriteError(w, "failed to remove member", http.StatusInternalServerError)
		return
	}

	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		utils.WriteError(w, "user is not a member of this group", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "member removed from group",
	})
}

// FUNC TO DELETE A GROUP
func DeleteGroupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
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

	group, err := fetchGroup(ctx, db, groupID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			utils.WriteError(w, "group not found", ledger.StatusCode(err))
			return
		}
		utils.WriteError(w, "failed to retrieve group", http.StatusInternalServerError)
		return
	}

	if !ledger.CanDeleteGroup(userID, group) {
		utils.WriteError(w, "only the group creator can delete the group", http.StatusForbidden)
		return
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Every cascaded expense gets a 'deleted' audit row in the same
	// transaction, same as a single-expense delete.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO expense_audits (expense_id, user_id, group_id, action, amount, description, expense_ds, timestamp)
		SELECT id, user_id, group_id, ?, amount, description, ds, ?
		FROM expenses WHERE group_id = ?`,
		models.AuditDeleted, time.Now().Format("2006-01-02 15:04:05"), groupID)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to audit group expenses: %v", err)
		utils.WriteError(w, "error deleting group", http.StatusInternalServerError)
		return
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE group_id = ?", groupID); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to delete group expenses: %v", err)
		utils.WriteError(w, "error deleting group", http.StatusInternalServerError)
		return
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM group_memberships WHERE group_id = ?", groupID); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to delete group memberships: %v", err)
		utils.WriteError(w, "error deleting group", http.StatusInternalServerError)
		return
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("error deleting group: %v", err)
		utils.WriteError(w, "error deleting group", http.StatusInternalServerError)
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
		"message": "group and its members deleted successfully",
	})
}
