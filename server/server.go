package server

import (
	"embed"
	"io/fs"
	"net/http"

	"fleamarket/config"
	"fleamarket/handlers"
	"fleamarket/internal/logger"
	"fleamarket/internal/metrics"
	"fleamarket/internal/service"
	"fleamarket/internal/storage"
	"fleamarket/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"gorm.io/gorm"
)

//go:embed all:views
var viewsFS embed.FS

const bodyLimit = 10 * 1024 * 1024

// Deps is everything the HTTP layer needs from main.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Logger  logger.Logger
	Storage storage.Storage
	Items   *service.ItemService
	Users   *service.UserService
	Metrics *metrics.Metrics
}

// New builds the fiber application with views, middleware and routes.
func New(d Deps) *fiber.App {
	views, err := fs.Sub(viewsFS, "views")
	if err != nil {
		d.Logger.Fatalf("Failed to open embedded views: %v", err)
	}
	engine := html.NewFileSystem(http.FS(views), ".html")
	engine.AddFuncMap(templateFuncs(d.Storage))

	app := fiber.New(fiber.Config{
		AppName:      d.Config.AppName,
		ServerHeader: d.Config.AppName + " Server/1.0",
		Views:        engine,
		BodyLimit:    bodyLimit,
		ErrorHandler: handlers.ErrorHandler(d.Logger),
	})

	middleware.SetupMiddleware(app, d.Metrics)

	if local, ok := d.Storage.(*storage.LocalStorage); ok {
		app.Static(d.Config.Storage.URLPrefix, local.Root())
	}

	// Health Check Endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "success",
			"message": "API is healthy",
		})
	})
	app.Get("/metrics", d.Metrics.Handler())

	apiHandler := handlers.NewAPIHandler(d.DB, d.Items)
	api := app.Group("/api")
	api.Get("/items", apiHandler.ListItems)
	api.Get("/items/:id", apiHandler.GetItem)
	api.Get("/lookups/:kind", apiHandler.GetLookups)

	session := middleware.Session{
		Secret: []byte(d.Config.SessionSecret),
		TTL:    d.Config.SessionTTL,
		Secure: d.Config.SecureCookie,
	}
	app.Use(middleware.CSRF(d.Config.SecureCookie))
	app.Use(middleware.LoadSession(d.Users, session))

	registerRoutes(app, d, session)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
	return app
}

func registerRoutes(app *fiber.App, d Deps, session middleware.Session) {
	authHandler := handlers.NewAuthHandler(d.Users, session, d.Metrics, d.Logger)
	itemHandler := handlers.NewItemHandler(d.Items)
	transactionHandler := handlers.NewTransactionHandler(d.Items)

	app.Get("/", itemHandler.Index)

	users := app.Group("/users")
	users.Get("/sign_in", authHandler.NewSession)
	users.Post("/sign_in", authHandler.CreateSession)
	users.Post("/sign_out", authHandler.DestroySession)
	users.Delete("/sign_out", authHandler.DestroySession)
	users.Get("/sign_up", authHandler.NewRegistration)
	app.Post("/users", authHandler.CreateRegistration)

	// /items/new must be registered before /items/:id
	app.Get("/items/new", middleware.RequireLogin, itemHandler.New)
	app.Post("/items", middleware.RequireLogin, itemHandler.Create)
	app.Get("/items/:id", itemHandler.Show)
	app.Get("/items/:id/edit", middleware.RequireLogin, itemHandler.Edit)
	app.Patch("/items/:id", middleware.RequireLogin, itemHandler.Update)
	app.Put("/items/:id", middleware.RequireLogin, itemHandler.Update)
	app.Post("/items/:id", middleware.RequireLogin, itemHandler.Update)
	app.Delete("/items/:id", middleware.RequireLogin, itemHandler.Destroy)
	app.Post("/items/:id/delete", middleware.RequireLogin, itemHandler.Destroy)
	app.Get("/items/:id/transactions", middleware.RequireLogin, transactionHandler.Index)
}
