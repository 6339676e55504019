package routers

import (
	"net/http"

	"spendtrack/internal/api/handlers/insights"
)

func insightsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/insights/suggestions", insights.GetSuggestionsHandler)

	mux.HandleFunc("/insights/notifications", insights.GetNotificationsHandler)

	return mux
}
