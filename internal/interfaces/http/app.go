package http

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// AppConfig opciones del servidor fiber.
type AppConfig struct {
	Name       string
	SwaggerDoc []byte // swagger.json; vacío: sin Swagger UI
}

// NewApp crea la app fiber con codec goccy/go-json, recover, Swagger y /health.
func NewApp(cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if len(cfg.SwaggerDoc) > 0 {
		app.Use(swagger.New(swagger.Config{
			BasePath:    "/",
			FilePath:    "docs/swagger.json",
			FileContent: cfg.SwaggerDoc,
			Path:        "docs",
			Title:       "Udeservering API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})
	return app
}
