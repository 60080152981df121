package controller

import (
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetMetrics(ctx *fiber.Ctx) error
	ResetMetrics(ctx *fiber.Ctx) error
	GetCacheStats(ctx *fiber.Ctx) error
	ClearCache(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetModelSettings(ctx *fiber.Ctx) error
	UpdateModelSettings(ctx *fiber.Ctx) error
}

type adminController struct {
	adminService      service.IAdminService
	preferenceService service.IPreferenceService
}

func NewAdminController(adminService service.IAdminService, preferenceService service.IPreferenceService) IAdminController {
	return &adminController{
		adminService:      adminService,
		preferenceService: preferenceService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Use(serverutils.AdminOnly)
	h.Get("metrics", c.GetMetrics)
	h.Post("metrics/reset", c.ResetMetrics)
	h.Get("cache", c.GetCacheStats)
	h.Delete("cache", c.ClearCache)
	h.Get("logs", c.GetLogs)
	h.Get("model-settings", c.GetModelSettings)
	h.Put("model-settings", c.UpdateModelSettings)
}

func (c *adminController) GetMetrics(ctx *fiber.Ctx) error {
	res, err := c.adminService.GetMetrics(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get metrics", res))
}

func (c *adminController) ResetMetrics(ctx *fiber.Ctx) error {
	if err := c.adminService.ResetMetrics(ctx.Context()); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success reset metrics", nil))
}

func (c *adminController) GetCacheStats(ctx *fiber.Ctx) error {
	res, err := c.adminService.GetCacheStats(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get cache stats", res))
}

func (c *adminController) ClearCache(ctx *fiber.Ctx) error {
	res, err := c.adminService.ClearCache(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success clear cache", res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	level := ctx.Query("level", "")
	limit := ctx.QueryInt("limit", 100)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.adminService.GetLogs(ctx.Context(), level, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get logs", res))
}

func (c *adminController) GetModelSettings(ctx *fiber.Ctx) error {
	res, err := c.preferenceService.GetModelSettings(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get model settings", res))
}

func (c *adminController) UpdateModelSettings(ctx *fiber.Ctx) error {
	var req dto.UpdateModelSettingsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.preferenceService.UpdateModelSettings(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update model settings", res))
}
