package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	"github.com/surafelx/portfolio26/globals"
	"github.com/surafelx/portfolio26/utils"
)

// JWT claims
type Claims struct {
	Username string   `json:"username"`
	Role     []string `json:"role"`
	jwt.RegisteredClaims
}

// Auth issues and checks admin tokens.
type Auth struct {
	secret []byte
	ttl    time.Duration
}

func NewAuth(secret []byte, ttl time.Duration) *Auth {
	return &Auth{secret: secret, ttl: ttl}
}

// Issue signs a token for username with the admin role.
func (a *Auth) Issue(username string) (string, time.Time, error) {
	if len(a.secret) == 0 {
		return "", time.Time{}, errors.New("jwt secret not configured")
	}
	now := time.Now()
	exp := now.Add(a.ttl)
	claims := Claims{
		Username: username,
		Role:     []string{globals.RoleAdmin},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse validates a raw token (without the Bearer prefix).
func (a *Auth) Parse(raw string) (*Claims, error) {
	if raw == "" || len(a.secret) == 0 {
		return nil, errors.New("invalid token")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}
	if !token.Valid || !slices.Contains(claims.Role, globals.RoleAdmin) {
		return nil, errors.New("unauthorized")
	}
	return claims, nil
}

// Authenticate admits requests carrying a valid admin bearer token.
func (a *Auth) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		header := r.Header.Get("Authorization")
		if header == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing token")
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token format")
			return
		}
		claims, err := a.Parse(raw)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next(w, r.WithContext(WithClaims(r.Context(), claims)), ps)
	}
}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	ctx = context.WithValue(ctx, globals.UserIDKey, c.Username)
	return context.WithValue(ctx, globals.RoleKey, c.Role)
}

// Admin returns the authenticated admin name stored by Authenticate.
func Admin(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(globals.UserIDKey).(string)
	return name, ok && name != ""
}
