package api

import (
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	generate_controller "github.com/sunthewhat/easy-cert-batch/api/controllers/generate"
	"github.com/sunthewhat/easy-cert-batch/api/handler"
	"github.com/sunthewhat/easy-cert-batch/api/middleware"
	"github.com/sunthewhat/easy-cert-batch/api/routes"
	appconfig "github.com/sunthewhat/easy-cert-batch/common/config"
	"github.com/sunthewhat/easy-cert-batch/common/util"
	"github.com/sunthewhat/easy-cert-batch/internal/generator"
	"github.com/sunthewhat/easy-cert-batch/type/shared"
)

// NewApp builds the fiber application around the generation service.
func NewApp(config *shared.Config, service *generator.Service) *fiber.App {
	cfg := fiber.Config{
		AppName:       "easy-cert batch",
		ErrorHandler:  handler.HandleError,
		Prefork:       false,
		StrictRouting: true,
		Network:       fiber.NetworkTCP,
		BodyLimit:     generate_controller.MaxUploadSize + 1<<20,
	}
	app := fiber.New(cfg)

	app.Use(logger.New())
	app.Use(middleware.Recover())
	app.Use(middleware.Cors(config.Cors))

	keepalive := time.Duration(util.Deref(config.KeepaliveSeconds, appconfig.DefaultKeepaliveSeconds)) * time.Second
	ctrl := generate_controller.NewGenerateController(
		service,
		util.Deref(config.TemplatesDir, ""),
		util.Deref(config.SampleWorkbook, ""),
		keepalive,
	)
	routes.Init(app, ctrl, middleware.Jwt(util.Deref(config.JWTSecret, "")))

	app.Use(handler.HandleNotFound)
	return app
}

func InitFiber(config *shared.Config, service *generator.Service) {
	app := NewApp(config, service)

	slog.Info("Starting server", "port", *config.Port)
	err := app.Listen(*config.Port)

	if err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
