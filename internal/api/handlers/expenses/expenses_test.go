package expenses

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"spendtrack/internal/repositories/sqlconnect"
	"spendtrack/pkg/utils"
)

func requireIntegrationDB(t *testing.T) *sql.DB {
	t.Helper()
	if os.Getenv("RUN_DB_INTEGRATION") != "true" {
		t.Skip("set RUN_DB_INTEGRATION=true to run this integration test")
	}
	if sqlconnect.DB == nil {
		if err := sqlconnect.ConnectDb(); err != nil {
			t.Fatalf("ConnectDb: %v", err)
		}
	}
	return sqlconnect.DB
}

func insertTestUser(t *testing.T, db *sql.DB) int {
	t.Helper()
	username := fmt.Sprintf("expensetest_%d", time.Now().UnixNano())
	res, err := db.Exec("INSERT INTO users (username, password) VALUES (?, ?)", username, "x")
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	id, _ := res.LastInsertId()
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = ?", id) })
	return int(id)
}

func asUser(r *http.Request, userID int) *http.Request {
	ctx := context.WithValue(r.Context(), utils.ContextKey("userId"), float64(userID))
	return r.WithContext(ctx)
}

// TestHistoricalServesLiveExpenses verifies that the historical endpoint
// returns the user's live expense series, not audit-trail rows.
func TestHistoricalServesLiveExpenses(t *testing.T) {
	db := requireIntegrationDB(t)

	userID := insertTestUser(t, db)

	if _, err := db.Exec(
		"INSERT INTO expenses (user_id, ds, amount, category, description) VALUES (?, '2026-07-15', '42.00', 'food', 'live row')",
		userID); err != nil {
		t.Fatalf("insert expense: %v", err)
	}
	// An orphaned audit row should never surface in the series.
	if _, err := db.Exec(
		"INSERT INTO expense_audits (expense_id, user_id, action, amount, description, expense_ds) VALUES (0, ?, 'deleted', '99.00', 'audit row', '2026-07-01')",
		userID); err != nil {
		t.Fatalf("insert audit: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM expense_audits WHERE user_id = ?", userID)
		db.Exec("DELETE FROM expenses WHERE user_id = ?", userID)
	})

	req := asUser(httptest.NewRequest(http.MethodGet, "/expenses/historical", nil), userID)
	rr := httptest.NewRecorder()
	HistoricalExpensesHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("historical: status %d, body %s", rr.Code, rr.Body.String())
	}

	body := rr.Body.String()
	if !strings.Contains(body, `"historical"`) {
		t.Errorf("response missing historical key: %s", body)
	}
	if !strings.Contains(body, "live row") {
		t.Errorf("live expense missing from series: %s", body)
	}
	if strings.Contains(body, "audit row") {
		t.Errorf("audit-trail row leaked into the series: %s", body)
	}
}
