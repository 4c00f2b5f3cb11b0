package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-parser/internal/logger"
)

const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' https://cdn.tailwindcss.com; " +
	"style-src 'self' 'unsafe-inline' https://cdn.tailwindcss.com; " +
	"img-src 'self' https://res.cloudinary.com data:; " +
	"font-src 'self' data:;"

// SecurityHeaders sets the response headers every page and API call carries.
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		c.Set(fiber.HeaderXFrameOptions, "DENY")
		c.Set(fiber.HeaderXXSSProtection, "1; mode=block")
		c.Set(fiber.HeaderStrictTransportSecurity, "max-age=31536000; includeSubDomains")
		c.Set(fiber.HeaderContentSecurityPolicy, contentSecurityPolicy)
		return c.Next()
	}
}

// ErrorHandler is the last line for errors no handler turned into a
// response. Details stay in the log.
func ErrorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "An unexpected error occurred. Please try again."

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		} else {
			log.Error("unhandled error", map[string]interface{}{
				"error":  err.Error(),
				"path":   c.Path(),
				"method": c.Method(),
			})
		}

		if code == fiber.StatusRequestEntityTooLarge {
			message = "File too large. Please upload a smaller PDF."
		}

		return c.Status(code).JSON(fiber.Map{
			"error": message,
			"code":  code,
		})
	}
}
