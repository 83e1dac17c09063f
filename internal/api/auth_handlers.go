package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/wildanre/Evently-sub001/internal/auth"
	"github.com/wildanre/Evently-sub001/internal/models"
)

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (api *Api) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !auth.ValidateEmail(creds.Email) {
		writeError(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	if !auth.ValidatePassword(creds.Password) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":        "Password does not meet requirements",
			"requirements": auth.PasswordRequirements(),
		})
		return
	}

	if _, err := api.store.GetUserByEmail(creds.Email); err == nil {
		writeError(w, http.StatusConflict, "Email already in use")
		return
	}

	user, err := models.NewUser(creds.Name, creds.Email, creds.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	if err := api.store.CreateUser(user); err != nil {
		log.Printf("[AUTH] Failed to create user %s: %v", creds.Email, err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	token, err := api.issueToken(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create token")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (api *Api) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := api.store.GetUserByEmail(creds.Email)
	if err != nil || !user.ValidatePassword(creds.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := api.issueToken(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create token")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (api *Api) issueToken(user *models.User) (string, error) {
	ttl := time.Duration(api.Config.Auth.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return api.tokens.GenerateToken(user, ttl)
}
