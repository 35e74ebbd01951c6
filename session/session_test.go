package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sayanchanda7290/roomradar/apperr"
	"github.com/sayanchanda7290/roomradar/config"
)

func newManager(secret string) *Manager {
	return NewManager(config.SessionConfig{Secret: secret, CookieName: "token"})
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := newManager("s3cret")
	ids := []Identity{
		{UserID: "65f0c0ffee0000000000abcd", Email: "ann@x.com"},
		{UserID: "x", Email: ""},
		{UserID: "6600000000000000000000ff", Email: "ünïcode+tag@example.org"},
	}
	for _, id := range ids {
		token, err := m.Issue(id)
		if err != nil {
			t.Fatalf("Issue(%+v): %v", id, err)
		}
		got, err := m.Verify(token)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if got != id {
			t.Fatalf("round trip = %+v, want %+v", got, id)
		}
	}
}

func TestTokenHasNoExpiry(t *testing.T) {
	token, err := newManager("s").Issue(Identity{UserID: "u1", Email: "a@b.c"})
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(token, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatal(err)
	}
	var claims map[string]any
	if err := json.Unmarshal(payload, &claims); err != nil {
		t.Fatal(err)
	}
	if _, ok := claims["exp"]; ok {
		t.Fatal("token carries an exp claim")
	}
	if claims["id"] != "u1" || claims["email"] != "a@b.c" {
		t.Fatalf("unexpected claims %v", claims)
	}
}

func TestVerifyRejects(t *testing.T) {
	m := newManager("s3cret")
	good, _ := m.Issue(Identity{UserID: "u1", Email: "a@b.c"})
	foreign, _ := newManager("rotated").Issue(Identity{UserID: "u1", Email: "a@b.c"})

	noneToken := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u1"})
	unsigned, err := noneToken.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	noID, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Email: "a@b.c"}).SignedString([]byte("s3cret"))

	parts := strings.Split(good, ".")
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(`{"email":"a@b.c","id":"someone-else"}`))
	tampered := strings.Join(parts, ".")

	cases := map[string]string{
		"empty":          "",
		"garbage":        "not.a.token",
		"tampered":       tampered,
		"foreign secret": foreign,
		"alg none":       unsigned,
		"missing id":     noID,
	}
	for name, token := range cases {
		_, err := m.Verify(token)
		if apperr.KindOf(err) != apperr.Unauthenticated {
			t.Errorf("%s: kind = %v, want unauthenticated", name, apperr.KindOf(err))
		}
	}
}

func TestFromRequest(t *testing.T) {
	m := newManager("s3cret")
	id := Identity{UserID: "u1", Email: "a@b.c"}
	token, _ := m.Issue(id)

	r := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	if _, err := m.FromRequest(r); apperr.KindOf(err) != apperr.NoSession {
		t.Fatalf("no cookie: kind = %v, want no_session", apperr.KindOf(err))
	}

	r = httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: ""})
	if _, err := m.FromRequest(r); apperr.KindOf(err) != apperr.NoSession {
		t.Fatalf("cleared cookie: kind = %v, want no_session", apperr.KindOf(err))
	}

	r = httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: "bogus"})
	if _, err := m.FromRequest(r); apperr.KindOf(err) != apperr.Unauthenticated {
		t.Fatalf("bad cookie: kind = %v, want unauthenticated", apperr.KindOf(err))
	}

	r = httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: token})
	got, err := m.FromRequest(r)
	if err != nil || got != id {
		t.Fatalf("cookie: got %+v, %v", got, err)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	got, err = m.FromRequest(r)
	if err != nil || got != id {
		t.Fatalf("bearer: got %+v, %v", got, err)
	}
}

func TestCookies(t *testing.T) {
	m := newManager("s")
	rec := httptest.NewRecorder()
	m.SetCookie(rec, "abc")
	m.ClearCookie(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("got %d cookies", len(cookies))
	}
	if cookies[0].Value != "abc" || !cookies[0].HttpOnly {
		t.Fatalf("set cookie = %+v", cookies[0])
	}
	if cookies[1].Value != "" || cookies[1].MaxAge >= 0 {
		t.Fatalf("clear cookie = %+v", cookies[1])
	}
}
