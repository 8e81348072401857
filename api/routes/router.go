package routes

import (
	"github.com/gofiber/fiber/v2"
	generate_controller "github.com/sunthewhat/easy-cert-batch/api/controllers/generate"
)

// Init registers the public routes. guard protects the routes that start
// work or hand out results.
func Init(router fiber.Router, ctrl *generate_controller.GenerateController, guard fiber.Handler) {
	router.Get("health", ctrl.Health)
	router.Head("/", ctrl.Head)

	router.Get("check-templates", ctrl.CheckTemplates)
	router.Get("sample-excel", ctrl.SampleExcel)
	router.Get("progress/:jobId", ctrl.Progress)

	router.Post("generate", guard, ctrl.Generate)
	router.Post("generate-async", guard, ctrl.GenerateAsync)
	router.Get("download/:jobId", guard, ctrl.Download)
}
