package serverutils

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

const telegramSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// TelegramSecretMiddleware rejects webhook calls that do not carry the secret
// token registered with setWebhook. An empty configured secret disables the
// check (local development without a public URL).
func TelegramSecretMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}
		got := c.Get(telegramSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			return NewAppError(fiber.StatusUnauthorized, "Invalid webhook secret")
		}
		return c.Next()
	}
}
