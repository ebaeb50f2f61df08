// Package auth logs the site owner in. There is a single admin account,
// configured through the environment.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"

	"github.com/surafelx/portfolio26/logx"
	"github.com/surafelx/portfolio26/middleware"
	"github.com/surafelx/portfolio26/utils"
)

type Handlers struct {
	auth         *middleware.Auth
	username     string
	passwordHash []byte
	log          *logx.Logger
}

func NewHandlers(a *middleware.Auth, username, passwordHash string, log *logx.Logger) *Handlers {
	return &Handlers{auth: a, username: username, passwordHash: []byte(passwordHash), log: logx.OrNop(log)}
}

// HashPassword returns the bcrypt hash to put in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login serves POST /api/auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	if !h.valid(input.Username, input.Password) {
		h.log.Warn("[Login] rejected", "username", input.Username, "ip", utils.ClientIP(r))
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, exp, err := h.auth.Issue(input.Username)
	if err != nil {
		h.log.Error("[Login] token issue failed", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	h.log.Info("[Login] admin signed in", "username", input.Username)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"token":     token,
		"expiresAt": exp.UTC().Format(time.RFC3339),
		"username":  input.Username,
	})
}

func (h *Handlers) valid(username, password string) bool {
	if h.username == "" || len(h.passwordHash) == 0 {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(password)) == nil
	return userOK && passOK
}

// Me serves GET /api/auth/me for a signed-in admin.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	username, ok := middleware.Admin(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"username": username})
}
