package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nvalmar/postdeck-be/internal/models"
	"github.com/rs/zerolog/log"
)

// TokenLifetime is fixed at issuance; expiry forces re-authentication.
// There is no refresh mechanism.
const TokenLifetime = time.Hour

// ErrInvalidToken covers every validation failure: bad signature, wrong
// issuer or audience, expired, malformed. Callers never learn which check
// failed.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the fixed set of identity facts embedded in a token.
type Claims struct {
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	jwt.RegisteredClaims
}

// TokenService issues and validates signed bearer tokens. The signing key,
// issuer, and audience are set once at construction and never change.
type TokenService struct {
	key      []byte
	issuer   string
	audience string
}

// NewTokenService creates a TokenService from startup configuration.
func NewTokenService(key, issuer, audience string) *TokenService {
	return &TokenService{key: []byte(key), issuer: issuer, audience: audience}
}

// Issue creates a signed token for a verified user. The token carries the
// user id as subject plus email and display name, and expires after
// TokenLifetime.
func (ts *TokenService) Issue(user models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email:       user.Email,
		DisplayName: user.DisplayName(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    ts.issuer,
			Audience:  jwt.ClaimStrings{ts.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString(ts.key)
}

// Validate parses and verifies a token string. It fails closed: a token
// that fails any check is rejected in full.
func (ts *TokenService) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(token *jwt.Token) (interface{}, error) {
			return ts.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuer(ts.issuer),
		jwt.WithAudience(ts.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Middleware protects routes behind bearer-token authentication. On success
// the resolved caller identity is stored in the request context.
func (ts *TokenService) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string

			// 1. Try to get the token from the Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, "Bearer ")
				if len(parts) == 2 {
					tokenStr = parts[1]
				}
			}

			// 2. If not in header, fall back to the cookie
			if tokenStr == "" {
				cookie, err := r.Cookie("token")
				if err != nil {
					http.Error(w, "Missing auth token", http.StatusUnauthorized)
					return
				}
				tokenStr = cookie.Value
			}

			// 3. Validate the token
			claims, err := ts.Validate(tokenStr)
			if err != nil {
				http.Error(w, "Invalid auth token", http.StatusUnauthorized)
				return
			}

			// 4. Project the claims into a caller identity. A token with no
			// usable subject is treated the same as an invalid one.
			identity, err := ResolveIdentity(claims)
			if err != nil {
				log.Warn().Err(err).Msg("Token validated but identity resolution failed")
				http.Error(w, "Invalid auth token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}
