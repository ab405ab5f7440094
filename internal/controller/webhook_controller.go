package controller

import (
	"prodreport-be/internal/pkg/logger"
	"prodreport-be/internal/pkg/serverutils"
	"prodreport-be/internal/service"
	"prodreport-be/pkg/telegram"

	"github.com/gofiber/fiber/v2"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	HandleUpdate(ctx *fiber.Ctx) error
}

type webhookController struct {
	conversationService service.IConversationService
	bot                 *telegram.Client
	webhookSecret       string
	sysLogger           logger.ILogger
}

func NewWebhookController(
	conversationService service.IConversationService,
	bot *telegram.Client,
	webhookSecret string,
	sysLogger logger.ILogger,
) IWebhookController {
	return &webhookController{
		conversationService: conversationService,
		bot:                 bot,
		webhookSecret:       webhookSecret,
		sysLogger:           sysLogger,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhook/v1")
	h.Use(serverutils.TelegramSecretMiddleware(c.webhookSecret))
	h.Post("telegram", c.HandleUpdate)
}

// HandleUpdate always answers 200 to Telegram: a non-2xx makes Telegram
// retransmit the update, and quantity commits are not idempotent.
func (c *webhookController) HandleUpdate(ctx *fiber.Ctx) error {
	var update telegram.Update
	if err := ctx.BodyParser(&update); err != nil {
		c.sysLogger.Warn("webhook", "Unparseable update", map[string]interface{}{"error": err.Error()})
		return ctx.JSON(serverutils.SuccessResponse[any]("ignored", nil))
	}

	event := telegram.ParseUpdate(&update)
	if event == nil {
		return ctx.JSON(serverutils.SuccessResponse[any]("ignored", nil))
	}

	if update.CallbackQuery != nil {
		if err := c.bot.AnswerCallback(ctx.Context(), update.CallbackQuery.ID); err != nil {
			c.sysLogger.Warn("webhook", "answerCallbackQuery failed", map[string]interface{}{"error": err.Error()})
		}
	}

	prompt, err := c.conversationService.Handle(ctx.Context(), event)
	if err != nil {
		c.sysLogger.Error("webhook", "Engine error", map[string]interface{}{
			"user": event.UserID, "error": err.Error(),
		})
		return ctx.JSON(serverutils.SuccessResponse[any]("ok", nil))
	}

	if err := c.bot.SendPrompt(ctx.Context(), event.UserID, prompt); err != nil {
		c.sysLogger.Error("webhook", "sendMessage failed", map[string]interface{}{
			"user": event.UserID, "error": err.Error(),
		})
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("ok", nil))
}
