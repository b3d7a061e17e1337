package handlers

import (
	"errors"
	"strconv"
	"strings"

	"fleamarket/internal/logger"
	"fleamarket/middleware"
	"fleamarket/models"

	"github.com/gofiber/fiber/v2"
)

const layout = "layouts/main"

// render adds the per-request values every view needs and renders view inside the layout.
func render(c *fiber.Ctx, status int, view string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["CurrentUser"] = middleware.CurrentUser(c)
	data["Flash"] = middleware.CurrentFlash(c)
	data["CSRFToken"] = middleware.CSRFToken(c)
	return c.Status(status).Render(view, data, layout)
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.ErrNotFound
	}
	return uint(id), nil
}

// ErrorHandler renders the JSON envelope for /api and an HTML page elsewhere.
func ErrorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		} else {
			log.Errorf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		}

		if strings.HasPrefix(c.Path(), "/api") {
			return c.Status(code).JSON(models.ErrorResponse(msg, fiber.Map{"status": code}))
		}
		if renderErr := render(c, code, "errors/show", fiber.Map{"Status": code, "Message": msg}); renderErr != nil {
			log.Errorf("Rendering error page failed: %v", renderErr)
			return c.Status(code).SendString(msg)
		}
		return nil
	}
}
