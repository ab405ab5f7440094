package controller

import (
	"context"
	"time"

	"prodreport-be/internal/dto"
	"prodreport-be/internal/pkg/serverutils"
	"prodreport-be/internal/service"
	"prodreport-be/pkg/sheets"

	"github.com/gofiber/fiber/v2"
)

type IReportController interface {
	RegisterRoutes(r fiber.Router)
	Status(ctx *fiber.Ctx) error
}

type reportController struct {
	ledgerService service.ILedgerService
	storeTimeout  time.Duration
}

func NewReportController(ledgerService service.ILedgerService, storeTimeout time.Duration) IReportController {
	return &reportController{
		ledgerService: ledgerService,
		storeTimeout:  storeTimeout,
	}
}

func (c *reportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/report/v1")
	h.Get("status", c.Status)
}

func (c *reportController) Status(ctx *fiber.Ctx) error {
	var req dto.StatusQueryRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	reqCtx, cancel := context.WithTimeout(ctx.Context(), c.storeTimeout)
	defer cancel()

	report, err := c.ledgerService.ComputeStatus(reqCtx, sheets.RowKey{
		Client:  req.Client,
		Project: req.Project,
		Item:    req.Item,
	})
	if err != nil {
		return serverutils.NewAppError(fiber.StatusBadGateway, "Report sheet unavailable")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success compute status", report))
}
