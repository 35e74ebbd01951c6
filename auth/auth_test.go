package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"

	"github.com/sayanchanda7290/roomradar/config"
	"github.com/sayanchanda7290/roomradar/middleware"
	"github.com/sayanchanda7290/roomradar/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	sessions := session.NewManager(config.SessionConfig{Secret: "test-secret", CookieName: "token"})
	h := NewHandler(NewCredentials(newMemUserStore(), bcrypt.MinCost), sessions)
	mw := middleware.NewAuth(sessions)

	router := httprouter.New()
	router.POST("/api/register", h.Register)
	router.POST("/api/login", h.Login)
	router.GET("/api/profile", mw.OptionalAuth(h.Profile))
	router.POST("/api/logout", h.Logout)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func tokenCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}

func TestRegisterLoginProfileFlow(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv.URL+"/api/register", `{"name":"Ann","email":"ann@x.com","password":"pw"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}

	resp = post(t, srv.URL+"/api/register", `{"name":"Ann","email":"ann@x.com","password":"pw"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register status = %d", resp.StatusCode)
	}

	resp = post(t, srv.URL+"/api/login", `{"email":"ann@x.com","password":"pw"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var loggedIn map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&loggedIn); err != nil {
		t.Fatal(err)
	}
	if loggedIn["email"] != "ann@x.com" {
		t.Fatalf("login body = %v", loggedIn)
	}
	if _, leaked := loggedIn["password"]; leaked {
		t.Fatal("login response leaks password hash")
	}
	cookie := tokenCookie(resp)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("login did not set the token cookie")
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/profile", nil)
	req.AddCookie(cookie)
	pr, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer pr.Body.Close()
	var profile map[string]any
	if err := json.NewDecoder(pr.Body).Decode(&profile); err != nil {
		t.Fatal(err)
	}
	if profile["email"] != "ann@x.com" || profile["name"] != "Ann" || profile["_id"] != loggedIn["_id"] {
		t.Fatalf("profile = %v", profile)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	srv := newTestServer(t)
	post(t, srv.URL+"/api/register", `{"name":"Ann","email":"ann@x.com","password":"pw"}`)

	resp := post(t, srv.URL+"/api/login", `{"email":"ann@x.com","password":"wrong"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "invalid_credentials" {
		t.Fatalf("body = %v", body)
	}
	if _, ok := body["email"]; ok {
		t.Fatal("profile returned on failed login")
	}
	if c := tokenCookie(resp); c != nil {
		t.Fatal("cookie set on failed login")
	}
}

func TestProfileAnonymousIsNull(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/profile")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(body)) != "null" {
		t.Fatalf("anonymous profile = %d %q", resp.StatusCode, body)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv.URL+"/api/logout", "")
	c := tokenCookie(resp)
	if c == nil || c.Value != "" || c.MaxAge >= 0 {
		t.Fatalf("logout cookie = %+v", c)
	}
}
