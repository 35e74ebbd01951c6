package auth

import (
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/sayanchanda7290/roomradar/metrics"
	"github.com/sayanchanda7290/roomradar/middleware"
	"github.com/sayanchanda7290/roomradar/session"
	"github.com/sayanchanda7290/roomradar/utils"
)

type Handler struct {
	creds    *Credentials
	sessions *session.Manager
}

func NewHandler(creds *Credentials, sessions *session.Manager) *Handler {
	return &Handler{creds: creds, sessions: sessions}
}

type registrationInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input registrationInput
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	user, err := h.creds.Register(r.Context(), input.Name, input.Email, input.Password)
	metrics.ObserveRegistration(err)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	log.Printf("Registered user %s", user.ID.Hex())
	utils.RespondWithJSON(w, http.StatusCreated, user.Profile())
}

// Login handles POST /api/login and sets the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input loginInput
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	user, err := h.creds.Authenticate(r.Context(), input.Email, input.Password)
	metrics.ObserveLogin(err)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	token, err := h.sessions.Issue(session.Identity{UserID: user.ID.Hex(), Email: user.Email})
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	h.sessions.SetCookie(w, token)
	utils.RespondWithJSON(w, http.StatusOK, user.Profile())
}

// Profile handles GET /api/profile. Anonymous callers get null.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.RespondWithJSON(w, http.StatusOK, nil)
		return
	}

	profile, err := h.creds.Profile(r.Context(), id.UserID)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, profile)
}

// Logout handles POST /api/logout. Tokens are not revoked server-side.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.sessions.ClearCookie(w)
	utils.RespondWithJSON(w, http.StatusOK, true)
}
