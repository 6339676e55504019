package routers

import (
	"net/http"

	"spendtrack/internal/api/handlers/groups"
)

func groupsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/groups/create", groups.CreateGroupHandler)

	mux.HandleFunc("/groups/", groups.GetMyGroupsHandler)

	mux.HandleFunc("/groups/{id}/members", groups.GetGroupMembersHandler)

	mux.HandleFunc("/groups/{id}/expenses", groups.GetGroupExpensesHandler)

	mux.HandleFunc("/groups/{id}/invite", groups.InviteMemberHandler)

	mux.HandleFunc("/groups/{id}/remove", groups.RemoveGroupMemberHandler)

	mux.HandleFunc("/groups/{id}/delete", groups.DeleteGroupHandler)

	mux.HandleFunc("/groups/{id}/split", groups.GetGroupSplitHandler)

	mux.HandleFunc("/groups/{id}/split-summary", groups.SplitSummaryHandler)

	mux.HandleFunc("/groups/{id}/audit-log", groups.GetGroupAuditLogHandler)

	return mux
}
