package controller

import (
	"encoding/json"

	"hr-assistant-be/internal/constant"
	"hr-assistant-be/internal/dto"
	"hr-assistant-be/internal/pkg/logger"
	"hr-assistant-be/internal/pkg/serverutils"
	"hr-assistant-be/internal/repository/contract"

	"github.com/gofiber/fiber/v2"
)

// IAdminController exposes operational views: the application log and the
// assistant's audit trail. All routes require a valid admin JWT.
type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetLogs(ctx *fiber.Ctx) error
	GetLogById(ctx *fiber.Ctx) error
	GetActivity(ctx *fiber.Ctx) error
}

type adminController struct {
	sysLogger    logger.ILogger
	activityLogs contract.ActivityLogRepository
}

func NewAdminController(sysLogger logger.ILogger, activityLogs contract.ActivityLogRepository) IAdminController {
	return &adminController{
		sysLogger:    sysLogger,
		activityLogs: activityLogs,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("logs", c.GetLogs)
	h.Get("logs/:id", c.GetLogById)
	h.Get("activity", c.GetActivity)
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	level := ctx.Query("level")
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	logs, err := c.sysLogger.GetLogs(level, limit, offset)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Log entries", logs))
}

func (c *adminController) GetLogById(ctx *fiber.Ctx) error {
	entry, err := c.sysLogger.GetLogById(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Log not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Log entry", entry))
}

func (c *adminController) GetActivity(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	entries, err := c.activityLogs.FindByModule(ctx.Context(), constant.ActivityLogModuleAssistant, limit, offset)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	out := make([]dto.ActivityLogResponse, 0, len(entries))
	for _, entry := range entries {
		var details map[string]any
		if len(entry.Details) > 0 {
			_ = json.Unmarshal(entry.Details, &details)
		}
		out = append(out, dto.ActivityLogResponse{
			Id:        entry.Id.String(),
			Module:    entry.Module,
			Action:    entry.Action,
			Details:   details,
			CreatedAt: entry.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	return ctx.JSON(serverutils.SuccessResponse("Assistant activity", out))
}
