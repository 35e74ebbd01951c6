package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sayanchanda7290/roomradar/apperr"
)

func TestLabelsByErrorKind(t *testing.T) {
	Register()
	Register()

	before := testutil.ToFloat64(logins.WithLabelValues("invalid_credentials"))
	ObserveLogin(apperr.New(apperr.InvalidCredentials, "Invalid email or password"))
	if got := testutil.ToFloat64(logins.WithLabelValues("invalid_credentials")); got != before+1 {
		t.Fatalf("invalid_credentials = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(photosIngested.WithLabelValues("link", "internal"))
	ObservePhoto("link", errors.New("disk full"))
	if got := testutil.ToFloat64(photosIngested.WithLabelValues("link", "internal")); got != before+1 {
		t.Fatalf("internal = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(bookings.WithLabelValues("ok"))
	ObserveBooking(nil)
	if got := testutil.ToFloat64(bookings.WithLabelValues("ok")); got != before+1 {
		t.Fatalf("bookings ok = %v", got)
	}

	before = testutil.ToFloat64(bookings.WithLabelValues("validation_failure"))
	ObserveBooking(apperr.New(apperr.ValidationFailure, "name is required"))
	if got := testutil.ToFloat64(bookings.WithLabelValues("validation_failure")); got != before+1 {
		t.Fatalf("bookings validation_failure = %v", got)
	}

	before = testutil.ToFloat64(receiptChecks.WithLabelValues("forbidden"))
	ObserveReceiptCheck(apperr.New(apperr.Forbidden, "not yours"))
	if got := testutil.ToFloat64(receiptChecks.WithLabelValues("forbidden")); got != before+1 {
		t.Fatalf("receipt checks = %v", got)
	}
}
