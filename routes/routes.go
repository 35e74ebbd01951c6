package routes

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sayanchanda7290/roomradar/auth"
	"github.com/sayanchanda7290/roomradar/booking"
	"github.com/sayanchanda7290/roomradar/filemgr"
	"github.com/sayanchanda7290/roomradar/media"
	"github.com/sayanchanda7290/roomradar/middleware"
	"github.com/sayanchanda7290/roomradar/places"
	"github.com/sayanchanda7290/roomradar/ratelim"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Middleware *middleware.Auth
	Auth       *auth.Handler
	Places     *places.Handler
	Bookings   *booking.Handler
	Media      *media.Handler
}

func RoutesWrapper(router *httprouter.Router, h Handlers, rateLimiter *ratelim.RateLimiter) {
	AddAuthRoutes(router, h, rateLimiter)
	AddMediaRoutes(router, h, rateLimiter)
	AddPlaceRoutes(router, h)
	AddBookingRoutes(router, h, rateLimiter)
	AddUtilityRoutes(router)
	AddStaticRoutes(router)
}

func AddAuthRoutes(router *httprouter.Router, h Handlers, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/register", rateLimiter.Limit(h.Auth.Register))
	router.POST("/api/login", rateLimiter.Limit(h.Auth.Login))
	router.GET("/api/profile", h.Middleware.OptionalAuth(h.Auth.Profile))
	router.POST("/api/logout", h.Auth.Logout)
}

func AddMediaRoutes(router *httprouter.Router, h Handlers, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/upload-by-link", rateLimiter.Limit(h.Media.UploadByLink))
	router.POST("/api/upload", rateLimiter.Limit(h.Media.Upload))
}

func AddPlaceRoutes(router *httprouter.Router, h Handlers) {
	router.POST("/api/places", h.Middleware.Authenticate(h.Places.CreatePlace))
	router.PUT("/api/places", h.Middleware.Authenticate(h.Places.UpdatePlace))
	router.GET("/api/places", h.Places.GetPlaces)
	router.GET("/api/places/:id", h.Places.GetPlace)
	router.GET("/api/user-places", h.Middleware.Authenticate(h.Places.UserPlaces))
}

func AddBookingRoutes(router *httprouter.Router, h Handlers, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/bookings", rateLimiter.Limit(h.Middleware.Authenticate(h.Bookings.CreateBooking)))
	router.GET("/api/bookings", h.Middleware.Authenticate(h.Bookings.GetBookings))
	router.GET("/api/bookings/:id/receipt", h.Middleware.Authenticate(h.Bookings.GetReceipt))
	router.POST("/api/bookings/verify-receipt", rateLimiter.Limit(h.Middleware.Authenticate(h.Bookings.VerifyReceipt)))
	router.GET("/api/places/:id/bookings/live", h.Middleware.Authenticate(h.Bookings.LiveBookings))
}

func AddUtilityRoutes(router *httprouter.Router) {
	router.GET("/health", Index)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())
}

// AddStaticRoutes serves photos kept by the local uploader.
func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/uploads/*filepath", http.Dir(filemgr.UploadsRoot))
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}
