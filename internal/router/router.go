package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/song-request-queue/internal/handler"
	"github.com/iliyamo/song-request-queue/internal/middleware"
)

// RegisterRoutes registers the unauthenticated surface: the health
// check, the public pricing lookup, the queue and spot listings and
// free submissions.  OptionalAuth lets logged-in viewers have their
// submissions attributed without requiring an account.
func RegisterRoutes(e *echo.Echo, p *handler.PricingHandler, s *handler.SubmissionHandler, jwtSecret string) {
	e.GET("/healthz", handler.Health)

	g := e.Group("/v1", middleware.OptionalAuth(jwtSecret))
	g.GET("/pricing/:type", p.GetPricing)
	g.GET("/queue", s.Queue)
	g.GET("/spots", s.AvailableSpots)
	g.POST("/submissions", s.Create)
}

// RegisterPayments registers the checkout endpoints under /v1/payments.
// Creation routes carry the rate limiter; verify routes do not, because
// verification is idempotent and a retrying client must never be locked
// out of confirming money it already spent.
func RegisterPayments(e *echo.Echo, h *handler.PaymentHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/payments", middleware.OptionalAuth(jwtSecret))

	g.POST("/priority", h.CreatePriorityPayment, limit)
	g.POST("/priority/verify", h.VerifyPriorityPayment)

	g.POST("/spot", h.CreateSpotPayment, limit)
	g.POST("/spot/verify", h.VerifySpotPayment)

	g.POST("/bid", h.CreateBidPayment, limit)
	g.POST("/bid/verify", h.VerifyBidPayment)
}

// RegisterAdmin registers the streamer-only management endpoints.  All
// routes require a valid JWT carrying the STREAMER role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("STREAMER"),
	)
	g.PUT("/pricing/:type", h.UpsertPricing)
	g.POST("/spots", h.CreateSpots)
	g.PATCH("/submissions/:id/status", h.UpdateSubmissionStatus)
}
