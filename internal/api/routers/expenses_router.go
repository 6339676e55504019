package routers

import (
	"net/http"

	"spendtrack/internal/api/handlers/expenses"
)

func expensesRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/expenses/create", expenses.CreateExpenseHandler)

	mux.HandleFunc("/expenses/", expenses.GetExpensesHandler)

	mux.HandleFunc("/expenses/update/{id}", expenses.UpdateExpenseHandler)

	mux.HandleFunc("/expenses/delete/{id}", expenses.DeleteExpenseHandler)

	mux.HandleFunc("/expenses/historical", expenses.HistoricalExpensesHandler)

	return mux
}
