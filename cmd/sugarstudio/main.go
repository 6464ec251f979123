package main

import (
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"sugarstudio/internal/config"
	"sugarstudio/internal/http/handlers"
	applog "sugarstudio/internal/log"
	"sugarstudio/internal/notify"
	"sugarstudio/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Outbound mail: real SMTP when configured, the log otherwise.
	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.SMTPAddr != "" {
		mailer, err := notify.NewMailer(cfg.SMTPAddr, cfg.SMTPFrom, cfg.BakerEmail, "./web/templates")
		if err != nil {
			log.Fatal(err)
		}
		notifier = mailer
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			if code >= 500 {
				applog.Error(c, "server.error", err, nil)
				return c.Status(code).JSON(fiber.Map{"status": "error", "message": "internal error"})
			}
			return c.Status(code).JSON(fiber.Map{"status": "error", "message": err.Error()})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	deps := handlers.NewDeps(db, cfg.JWTSecret, notifier)
	staff := handlers.RequireStaff(deps.Auth)
	admin := handlers.RequireAdmin(deps.Auth)

	api := app.Group("/api")

	// Auth (login throttled)
	auth := api.Group("/auth")
	auth.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"status": "error", "message": "too many attempts, try again later",
			})
		},
	}), deps.AuthHandler.Login)
	auth.Post("/register", admin, deps.AuthHandler.Register)
	auth.Get("/profile", staff, deps.AuthHandler.Profile)
	auth.Put("/profile", staff, deps.AuthHandler.UpdateProfile)
	auth.Put("/password", staff, deps.AuthHandler.ChangePassword)

	// Catalog (public reads, staff writes)
	api.Get("/categories", deps.CategoryHandler.List)
	api.Get("/categories/stats", staff, deps.CategoryHandler.Stats)
	api.Get("/categories/:id", deps.CategoryHandler.Get)
	api.Get("/categories/:id/products", deps.CategoryHandler.Products)
	api.Post("/categories", staff, deps.CategoryHandler.Create)
	api.Put("/categories/:id", staff, deps.CategoryHandler.Update)
	api.Delete("/categories/:id", staff, deps.CategoryHandler.Deactivate)

	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Get)
	api.Get("/products/:id/availability", deps.ProductHandler.Availability)
	api.Post("/products", staff, deps.ProductHandler.Create)
	api.Put("/products/:id", staff, deps.ProductHandler.Update)
	api.Delete("/products/:id", staff, deps.ProductHandler.Delete)
	api.Patch("/products/:id/stock", staff, deps.ProductHandler.AdjustStock)

	// Customers (staff-managed)
	api.Get("/customers", staff, deps.CustomerHandler.List)
	api.Get("/customers/by-email", staff, deps.CustomerHandler.ByEmail)
	api.Get("/customers/:id", staff, deps.CustomerHandler.Get)
	api.Post("/customers", deps.CustomerHandler.Create)
	api.Put("/customers/:id", staff, deps.CustomerHandler.Update)
	api.Delete("/customers/:id", staff, deps.CustomerHandler.Deactivate)
	api.Get("/customers/:id/orders", staff, deps.CustomerHandler.Orders)
	api.Get("/customers/:id/stats", staff, deps.CustomerHandler.Stats)

	// Carts
	api.Get("/cart/:customerId", deps.CartHandler.Get)
	api.Post("/cart/:customerId/items", deps.CartHandler.Add)
	api.Put("/cart/:customerId/items/:itemId", deps.CartHandler.UpdateItem)
	api.Delete("/cart/:customerId/items/:itemId", deps.CartHandler.Remove)
	api.Delete("/cart/:customerId", deps.CartHandler.Clear)
	api.Post("/cart/:customerId/checkout", deps.CartHandler.Checkout)

	// Orders
	api.Post("/orders", deps.OrderHandler.Place)
	api.Get("/orders", staff, deps.OrderHandler.List)
	api.Get("/orders/stats", staff, deps.OrderHandler.Stats)
	api.Get("/orders/track/:number", deps.OrderHandler.Track)
	api.Get("/orders/:id", staff, deps.OrderHandler.Get)
	api.Patch("/orders/:id/advance", staff, deps.OrderHandler.Advance)
	api.Patch("/orders/:id/status", staff, deps.OrderHandler.SetStatus)
	api.Patch("/orders/:id/cancel", staff, deps.OrderHandler.Cancel)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "not found"})
	})

	// Graceful shutdown: drain in-flight requests, then close the DB.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("[shutdown] draining connections")
		_ = app.Shutdown()
	}()

	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
