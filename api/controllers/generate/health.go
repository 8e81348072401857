package generate_controller

import "github.com/gofiber/fiber/v2"

func (ctrl *GenerateController) Health(c *fiber.Ctx) error {
	return c.SendString("ok")
}

func (ctrl *GenerateController) Head(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}
