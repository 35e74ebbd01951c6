package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sayanchanda7290/roomradar/apperr"
)

func TestRespondWithError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, apperr.New(apperr.Forbidden, "You are not the owner of this place"))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "forbidden" || body["message"] != "You are not the owner of this place" {
		t.Fatalf("body = %v", body)
	}
}

func TestRespondWithErrorHidesInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, errors.New("mongo: connection refused"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "mongo") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct{ Name string }

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"Name":"Ann"}`))
	if err := DecodeJSON(httptest.NewRecorder(), r, &dst); err != nil || dst.Name != "Ann" {
		t.Fatalf("decode = %v, %+v", err, dst)
	}

	for _, body := range []string{"", "{", `{"Name":1}`} {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		err := DecodeJSON(httptest.NewRecorder(), r, &dst)
		if apperr.KindOf(err) != apperr.ValidationFailure {
			t.Errorf("body %q: kind = %v", body, apperr.KindOf(err))
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"beach house.jpg":    "beach_house.jpg",
		"../../etc/passwd":   "passwd",
		"ok-name_1.PNG":      "ok-name_1.PNG",
		"":                   "file",
		"weird$chars?.webp":  "weird_chars_.webp",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCleanTags(t *testing.T) {
	got := CleanTags([]string{" wifi", "", "parking", "wifi", "pets "})
	want := []string{"wifi", "parking", "pets"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("CleanTags = %v", got)
	}
}

func TestTrimListKeepsDuplicates(t *testing.T) {
	got := TrimList([]string{"b.jpg", " a.jpg ", "", "b.jpg"})
	if strings.Join(got, ",") != "b.jpg,a.jpg,b.jpg" {
		t.Fatalf("TrimList = %v", got)
	}
}
