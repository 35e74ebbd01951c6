package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"

	"github.com/sayanchanda7290/roomradar/config"
	"github.com/sayanchanda7290/roomradar/session"
)

func setup(t *testing.T) (*Auth, string) {
	t.Helper()
	sessions := session.NewManager(config.SessionConfig{Secret: "test", CookieName: "token"})
	token, err := sessions.Issue(session.Identity{UserID: "u1", Email: "a@b.c"})
	if err != nil {
		t.Fatal(err)
	}
	return NewAuth(sessions), token
}

func echoIdentity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Write([]byte(id.UserID))
}

func TestAuthenticate(t *testing.T) {
	auth, token := setup(t)
	h := auth.Authenticate(echoIdentity)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no cookie: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})
	h(rec, r, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad cookie: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: token})
	h(rec, r, nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "u1" {
		t.Fatalf("valid cookie: %d %q", rec.Code, rec.Body.String())
	}
}

func TestOptionalAuth(t *testing.T) {
	auth, token := setup(t)
	h := auth.OptionalAuth(echoIdentity)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("anonymous: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})
	h(rec, r, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("invalid cookie: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: token})
	h(rec, r, nil)
	if rec.Body.String() != "u1" {
		t.Fatalf("valid cookie: %q", rec.Body.String())
	}
}
