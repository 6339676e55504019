package routers

import (
	"net/http"
)

func MainRouter() *http.ServeMux {

	mux := http.NewServeMux()

	uRouter := usersRouter()
	mux.Handle("/users/", uRouter)

	eRouter := expensesRouter()
	mux.Handle("/expenses/", eRouter)

	gRouter := groupsRouter()
	mux.Handle("/groups/", gRouter)

	bRouter := budgetsRouter()
	mux.Handle("/budgets/", bRouter)

	iRouter := insightsRouter()
	mux.Handle("/insights/", iRouter)

	return mux
}
