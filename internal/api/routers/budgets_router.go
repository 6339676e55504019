package routers

import (
	"net/http"

	"spendtrack/internal/api/handlers/budgets"
)

func budgetsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/budgets/set", budgets.SetBudgetHandler)

	mux.HandleFunc("/budgets/", budgets.GetBudgetsHandler)

	mux.HandleFunc("/budgets/monthly", budgets.MonthlyBudgetHandler)

	return mux
}
