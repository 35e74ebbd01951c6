package middleware

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/sayanchanda7290/roomradar/apperr"
	"github.com/sayanchanda7290/roomradar/session"
	"github.com/sayanchanda7290/roomradar/utils"
)

type ContextKey string

const IdentityKey ContextKey = "identity"

type Auth struct {
	sessions *session.Manager
}

func NewAuth(sessions *session.Manager) *Auth {
	return &Auth{sessions: sessions}
}

// Authenticate rejects the request unless it carries a valid session.
func (a *Auth) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id, err := a.sessions.FromRequest(r)
		if err != nil {
			if apperr.Is(err, apperr.NoSession) {
				err = apperr.New(apperr.Unauthenticated, "Missing token")
			}
			utils.RespondWithError(w, err)
			return
		}
		next(w, r.WithContext(WithIdentity(r.Context(), id)), ps)
	}
}

// OptionalAuth lets anonymous callers through. A credential that is present
// but invalid is still rejected.
func (a *Auth) OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id, err := a.sessions.FromRequest(r)
		switch {
		case err == nil:
			r = r.WithContext(WithIdentity(r.Context(), id))
		case apperr.Is(err, apperr.NoSession):
		default:
			utils.RespondWithError(w, err)
			return
		}
		next(w, r, ps)
	}
}

func WithIdentity(ctx context.Context, id session.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

func IdentityFrom(ctx context.Context) (session.Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(session.Identity)
	return id, ok && id.UserID != ""
}
