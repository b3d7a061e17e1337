package middleware

import (
	"time"

	"fleamarket/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const (
	CSRFField      = "authenticity_token"
	csrfContextKey = "csrf"
)

// SetupMiddleware configures the application wide middleware chain.
func SetupMiddleware(app *fiber.App, m *metrics.Metrics) {
	// Request ID middleware - adds unique ID to each request
	app.Use(requestid.New())

	// Logger middleware - logs all requests
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${method} ${path} - ${ip} - ${latency} - ${locals:requestid}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))

	// Recover middleware - recovers from panics
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// Security middleware
	app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		HSTSMaxAge:                31536000,
		CrossOriginEmbedderPolicy: "unsafe-none",
		CrossOriginResourcePolicy: "cross-origin",
	}))

	// Metrics middleware - request latency by route and status
	app.Use(m.Middleware())
}

// CSRF protects every unsafe request carrying the form field authenticity_token.
func CSRF(secureCookies bool) fiber.Handler {
	return csrf.New(csrf.Config{
		KeyLookup:      "form:" + CSRFField,
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSameSite: "Lax",
		CookieHTTPOnly: true,
		CookieSecure:   secureCookies,
		Expiration:     2 * time.Hour,
		ContextKey:     csrfContextKey,
	})
}

// CSRFToken returns the token of the current request for embedding in forms.
func CSRFToken(c *fiber.Ctx) string {
	token, _ := c.Locals(csrfContextKey).(string)
	return token
}
