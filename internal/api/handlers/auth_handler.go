package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nvalmar/postdeck-be/internal/auth"
	"github.com/nvalmar/postdeck-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration, login, and caller introspection.
type AuthHandler struct {
	users    services.UserServiceProvider
	tokens   *auth.TokenService
	activity services.ActivityServiceProvider
	isProd   bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, tokens *auth.TokenService, activity services.ActivityServiceProvider, isProd bool) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, activity: activity, isProd: isProd}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Gender    string `json:"gender"`
	Password  string `json:"password"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.Register(payload.FirstName, payload.LastName, payload.Email, payload.Gender, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			http.Error(w, "Email is already registered", http.StatusBadRequest)
		case errors.Is(err, services.ErrValidation):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
			http.Error(w, "Failed to register user", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// Login handles user authentication and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.Authenticate(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			// Do not reveal whether the email exists, and keep the attempted
			// email out of warn-level logs; it is attacker-controlled input.
			log.Warn().Msg("Failed authentication attempt")
			log.Debug().Str("email", payload.Email).Msg("Rejected login email")
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		log.Error().Err(err).Msg("Authentication lookup failed")
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	if err := h.activity.Record("user.login", "info", "Login: "+user.Email, nil); err != nil {
		log.Warn().Err(err).Msg("Failed to record login event")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(auth.TokenLifetime),
		HttpOnly: true,
		Secure:   h.isProd,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// GetMe retrieves the currently authenticated user from the token.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve caller identity from context")
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	user, err := h.users.GetByID(identity.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", identity.UserID).Msg("User from token not found in DB")
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
