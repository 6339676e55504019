package auth

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"spendtrack/internal/api/handlers"
	"spendtrack/internal/models"
	"spendtrack/internal/repositories/sqlconnect"
	"spendtrack/pkg/utils"
)

// duplicateSignupMessage maps a MySQL duplicate-key error to a user-facing
// message. The violated key name ("users.username" or "users.email") tells
// us which column collided.
func duplicateSignupMessage(err error) string {
	if strings.Contains(err.Error(), "users.email") {
		return "email already in use"
	}
	return "username already exists"
}

// FUNC TO REGISTER USERS
func RegisterUsersHandler(w http.ResponseWriter, r *http.Request) {
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

	type signupRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
	}

	var req signupRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	required := struct {
		Username string
		Password string
	}{req.Username, req.Password}
	if err := handlers.CheckBlankFields(required); err != nil {
		utils.WriteError(w, "username and password are required", http.StatusBadRequest)
		return
	}

	hashedPwd, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.WriteError(w, "error hashing password", http.StatusInternalServerError)
		return
	}

	email := sql.NullString{String: req.Email, Valid: req.Email != ""}

	res, err := db.Exec("INSERT INTO users (username, password, email, email_alerts_enabled) VALUES (?, ?, ?, ?)",
		req.Username, hashedPwd, email, email.Valid)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, duplicateSignupMessage(err), http.StatusConflict)
			return
		}
		utils.Logger.Errorf("failed to insert user: %v", err)
		utils.WriteError(w, "error signing up", http.StatusInternalServerError)
		return
	}

	id, err := res.LastInsertId()
	if err != nil {
		utils.Logger.Errorf("failed to get last insert ID: %v", err)
		utils.WriteError(w, "error signing up", http.StatusInternalServerError)
		return
	}

	utils.WriteJSONStatus(w, map[string]interface{}{
		"status":  "success",
		"message": "account created successfully",
		"data": map[string]interface{}{
			"id":       id,
			"username": req.Username,
		},
	}, http.StatusCreated)
}

// FUNC TO LOGIN
func LoginHandler(w http.ResponseWriter, r *http.Request) {
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

	type loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var req loginRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Username == "" || req.Password == "" {
		utils.WriteError(w, "username and password are required", http.StatusBadRequest)
		return
	}

	user := &models.User{}

	query := "SELECT id, username, password, email FROM users WHERE username = ?"
	err = db.QueryRow(query, strings.ToLower(req.Username)).Scan(&user.ID, &user.Username, &user.Password, &user.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "user not found", http.StatusNotFound)
			return
		}
		utils.Logger.Error("database query error")
		utils.WriteError(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := utils.VerifyPassword(req.Password, user.Password); err != nil {
		utils.WriteError(w, "incorrect username or password", http.StatusForbidden)
		return
	}

	tokenString, err := utils.SignToken(user.ID, user.Username)
	if err != nil {
		utils.Logger.Error("could not create login token")
		utils.WriteError(w, "error signing in", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "Bearer",
		Value:    tokenString,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		Expires:  time.Now().Add(24 * time.Hour),
		SameSite: http.SameSiteStrictMode,
	})

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "login successful",
		"token":   tokenString,
		"user": map[string]interface{}{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email.String,
		},
	})
}

// FUNC FOR LOGOUT
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "Bearer",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		Expires:  time.Unix(0, 0),
		SameSite: http.SameSiteStrictMode,
	})

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message": "logged out successfully"}`))
}

// FUNC TO UPDATE PASSWORD
func UpdatePasswordHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := int(idFloat)

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	type updateRequest struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	var req updateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "all fields are required", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.CurrentPassword == "" || req.NewPassword == "" {
		utils.WriteError(w, "please enter all fields", http.StatusBadRequest)
		return
	}

	var username string
	var userPassword string

	err := db.QueryRow("SELECT password, username FROM users WHERE id = ?", userID).Scan(&userPassword, &username)
	if err != nil {
		utils.WriteError(w, "user not found", http.StatusNotFound)
		return
	}

	err = utils.VerifyPassword(req.CurrentPassword, userPassword)
	if err != nil {
		utils.WriteError(w, "the password you entered does not match the current password", http.StatusBadRequest)
		return
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.Logger.Error("failed to hash password")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	_, err = db.Exec("UPDATE users SET password = ? WHERE id = ?", hashedPassword, userID)
	if err != nil {
		utils.WriteError(w, "failed to update password", http.StatusInternalServerError)
		return
	}

	token, err := utils.SignToken(userID, username)
	if err != nil {
		utils.Logger.Error("could not create token")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "Bearer",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		Expires:  time.Now().Add(24 * time.Hour),
		SameSite: http.SameSiteStrictMode,
	})

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "password updated successfully",
	})
}

// FUNC TO UPDATE EMAIL PREFERENCES
func UpdateEmailHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := int(idFloat)

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	type emailRequest struct {
		Email         string `json:"email"`
		AlertsEnabled *bool  `json:"alerts_enabled"`
	}

	var req emailRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" && req.AlertsEnabled == nil {
		utils.WriteError(w, "nothing to update", http.StatusBadRequest)
		return
	}

	if req.Email != "" {
		if !strings.Contains(req.Email, "@") {
			utils.WriteError(w, "invalid email address", http.StatusBadRequest)
			return
		}
		_, err := db.Exec("UPDATE users SET email = ? WHERE id = ?", req.Email, userID)
		if err != nil {
			utils.Logger.Errorf("failed to update email for user %d: %v", userID, err)
			utils.WriteError(w, "failed to update email", http.StatusInternalServerError)
			return
		}
	}

	if req.AlertsEnabled != nil {
		_, err := db.Exec("UPDATE users SET email_alerts_enabled = ? WHERE id = ?", *req.AlertsEnabled, userID)
		if err != nil {
			utils.Logger.Errorf("failed to update alert preference for user %d: %v", userID, err)
			utils.WriteError(w, "failed to update preferences", http.StatusInternalServerError)
			return
		}
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "email preferences updated",
	})
}
