package routers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// Registering every route must not panic. Wildcard-middle and
// literal-middle group routes conflict in ServeMux when they can match the
// same path, so building the full router is itself the assertion.
func TestMainRouterRegisters(t *testing.T) {
	if mux := MainRouter(); mux == nil {
		t.Fatal("MainRouter returned nil")
	}
}

func TestRouterPatterns(t *testing.T) {
	tests := []struct {
		mux         *http.ServeMux
		method      string
		path        string
		wantPattern string
	}{
		{usersRouter(), "POST", "/users/signup", "/users/signup"},
		{usersRouter(), "PATCH", "/users/email", "/users/email"},
		{expensesRouter(), "POST", "/expenses/create", "/expenses/create"},
		{expensesRouter(), "GET", "/expenses/historical", "/expenses/historical"},
		{expensesRouter(), "PATCH", "/expenses/update/7", "/expenses/update/{id}"},
		{expensesRouter(), "DELETE", "/expenses/delete/7", "/expenses/delete/{id}"},
		{groupsRouter(), "POST", "/groups/create", "/groups/create"},
		{groupsRouter(), "GET", "/groups/", "/groups/"},
		{groupsRouter(), "GET", "/groups/3/members", "/groups/{id}/members"},
		{groupsRouter(), "GET", "/groups/3/expenses", "/groups/{id}/expenses"},
		{groupsRouter(), "POST", "/groups/3/invite", "/groups/{id}/invite"},
		{groupsRouter(), "PATCH", "/groups/3/remove", "/groups/{id}/remove"},
		{groupsRouter(), "DELETE", "/groups/3/delete", "/groups/{id}/delete"},
		{groupsRouter(), "GET", "/groups/3/split", "/groups/{id}/split"},
		{groupsRouter(), "GET", "/groups/3/split-summary", "/groups/{id}/split-summary"},
		{groupsRouter(), "GET", "/groups/3/audit-log", "/groups/{id}/audit-log"},
		{budgetsRouter(), "POST", "/budgets/set", "/budgets/set"},
		{budgetsRouter(), "GET", "/budgets/monthly", "/budgets/monthly"},
		{insightsRouter(), "GET", "/insights/suggestions", "/insights/suggestions"},
		{insightsRouter(), "GET", "/insights/notifications", "/insights/notifications"},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(tt.method, tt.path, nil)
		_, pattern := tt.mux.Handler(r)
		if pattern != tt.wantPattern {
			t.Errorf("%s %s resolved to %q, want %q", tt.method, tt.path, pattern, tt.wantPattern)
		}
	}
}
