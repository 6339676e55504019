package routers

import (
	"net/http"

	"spendtrack/internal/api/handlers/auth"
)

func usersRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/users/signup", auth.RegisterUsersHandler)

	mux.HandleFunc("/users/login", auth.LoginHandler)
	mux.HandleFunc("/users/logout", auth.LogoutHandler)
	mux.HandleFunc("/users/updatepassword", auth.UpdatePasswordHandler)
	mux.HandleFunc("/users/email", auth.UpdateEmailHandler)

	return mux
}
