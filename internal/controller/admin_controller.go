// FILE: internal/controller/admin_controller.go
package controller

import (
	"os"

	"member-access-be/internal/dto"
	"member-access-be/internal/pkg/serverutils"
	"member-access-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GrantAccess(ctx *fiber.Ctx) error

	CancelSubscription(ctx *fiber.Ctx) error
	ResumeSubscription(ctx *fiber.Ctx) error
	ExtendSubscription(ctx *fiber.Ctx) error
	ReactivateSubscription(ctx *fiber.Ctx) error
	RevokeAccess(ctx *fiber.Ctx) error
	DeleteSubscription(ctx *fiber.Ctx) error
	ToggleAutoRenew(ctx *fiber.Ctx) error

	Refund(ctx *fiber.Ctx) error

	GetSubscriptions(ctx *fiber.Ctx) error
	GetOrders(ctx *fiber.Ctx) error
	GetAuditLog(ctx *fiber.Ctx) error
}

type adminController struct {
	service service.IAccessService
}

func NewAdminController(service service.IAccessService) IAdminController {
	return &adminController{service: service}
}

// adminMiddleware authenticates the back-office token and stores the actor
// id for the handlers. Every mutation below is attributed to this actor in
// the audit trail.
func (c *adminController) adminMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Missing or invalid authorization header"))
	}
	tokenStr := authHeader[7:]

	secret := os.Getenv("JWT_SECRET")

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(secret), nil
	})

	if err != nil || token == nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid or expired token"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid token claims"))
	}

	adminId, ok := claims["admin_id"].(string)
	if !ok {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Access denied: admins only"))
	}
	ctx.Locals("admin_id", adminId)

	return ctx.Next()
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(c.adminMiddleware)

	// Grant workflow
	h.Post("/grants", c.GrantAccess)

	// Listings
	h.Get("/subscriptions", c.GetSubscriptions)
	h.Get("/orders", c.GetOrders)
	h.Get("/audit-log", c.GetAuditLog)

	// Lifecycle actions
	h.Post("/subscriptions/:id/cancel", c.CancelSubscription)
	h.Post("/subscriptions/:id/resume", c.ResumeSubscription)
	h.Post("/subscriptions/:id/extend", c.ExtendSubscription)
	h.Post("/subscriptions/:id/grant-access", c.ReactivateSubscription)
	h.Post("/subscriptions/:id/revoke-access", c.RevokeAccess)
	h.Post("/subscriptions/:id/toggle-auto-renew", c.ToggleAutoRenew)
	h.Delete("/subscriptions/:id", c.DeleteSubscription)

	// Refunds
	h.Post("/refunds", c.Refund)
}

func (c *adminController) actorId(ctx *fiber.Ctx) (uuid.UUID, error) {
	idStr, _ := ctx.Locals("admin_id").(string)
	return uuid.Parse(idStr)
}

func (c *adminController) subscriptionId(ctx *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(ctx.Params("id"))
}

func (c *adminController) GrantAccess(ctx *fiber.Ctx) error {
	actorId, err := c.actorId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid actor"))
	}

	var req dto.GrantAccessRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	result, err := c.service.GrantAccess(ctx.UserContext(), actorId, req)
	if err != nil {
		return serverutils.HandleDomainError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Access granted", result))
}

func (c *adminController) CancelSubscription(ctx *fiber.Ctx) error {
	actorId, err := c.actorId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid actor"))
	}
	subId, err := c.subscriptionId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid subscription ID"))
	}

	var req dto.CancelSubscriptionRequest
	if err := ctx.BodyParser(&req); err != nil && len(ctx.Body()) > 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	sub, err := c.service.CancelSubscription(ctx.UserContext(), actorId, subId, req.Reason)
	if err != nil {
		return serverutils.HandleDomainError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription canceled", sub))
}

func (c *adminController) ResumeSubscription(ctx *fiber.Ctx) error {
	actorId, err := c.actorId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid actor"))
	}
	subId, err := c.subscriptionId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid subscription ID"))
	}

	sub, err := c.service.ResumeSubscription(ctx.UserContext(), actorId, subId)
	if err != nil {
		return serverutils.HandleDomainError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription resumed", sub))
}

func (c *adminController) ExtendSubscription(ctx *fiber.Ctx) error {
	actorId, err := c.actorId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid actor"))
	}
	subId, err := c.subscriptionId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid subscription ID"))
	}

	var req dto.ExtendSubscriptionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	sub, err := c.service.ExtendSubscription(ctx.UserContext(), actorId, subId, req.Days)
	if err != nil {
		return serverutils.HandleDomainError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription extended", sub))
}

func (c *adminController) ReactivateSubscription(ctx *fiber.Ctx) error {
	actorId, err := c.actorId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid actor"))
	}
	subId, err := c.subscriptionId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid subscription ID"))
	}

	var req dto.GrantSubscriptionAccessRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	sub, err := c.service.ReactivateSubscription(ctx.UserContext(), actorId, subId, req.Days)
	if err != nil {
		return serverutils.HandleDomainError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Access granted on subscription", sub))
}

func (c *adminController) RevokeAccess(ctx *fiber.Ctx) error {
	actorId, err := c.actorId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid actor"))
	}
	subId, err := c.subscriptionId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid subscription ID"))
	}

	var req dto.RevokeAccessRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	sub, err := c.service.RevokeAccess(ctx.UserContext(), actorId, subId, req.Reason)
	if err != nil {
		return serverutils.HandleDomainError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Access revoked", sub))
}

func (c *adminController) DeleteSubscription(ctx *fiber.Ctx) error {
	actorId, err := c.actorId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid actor"))
	}
	subId, err := c.subscriptionId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid subscription ID"))
	}

	var req dto.DeleteSubscriptionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	if err := c.service.DeleteSubscription(ctx.UserContext(), actorId, subId, req.Reason); err != nil {
		return serverutils.HandleDomainError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Subscription deleted", nil))
}

func (c *adminController) ToggleAutoRenew(ctx *fiber.Ctx) error {
	actorId, err := c.actorId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid actor"))
	}
	subId, err := c.subscriptionId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid subscription ID"))
	}

	var req dto.ToggleAutoRenewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	result, err := c.service.ToggleAutoRenew(ctx.UserContext(), actorId, subId, req.Target, req.Reason)
	if err != nil {
		return serverutils.HandleDomainError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Auto-renew updated", result))
}

func (c *adminController) Refund(ctx *fiber.Ctx) error {
	actorId, err := c.actorId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid actor"))
	}

	var req dto.RefundRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	result, err := c.service.Refund(ctx.UserContext(), actorId, req)
	if err != nil {
		return serverutils.HandleDomainError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Refund processed", result))
}

func (c *adminController) GetSubscriptions(ctx *fiber.Ctx) error {
	var req dto.ListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid query parameters"))
	}

	items, err := c.service.ListSubscriptions(ctx.UserContext(), req)
	if err != nil {
		return serverutils.HandleDomainError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription list", items))
}

func (c *adminController) GetOrders(ctx *fiber.Ctx) error {
	var req dto.ListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid query parameters"))
	}

	items, err := c.service.ListOrders(ctx.UserContext(), req)
	if err != nil {
		return serverutils.HandleDomainError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Order list", items))
}

func (c *adminController) GetAuditLog(ctx *fiber.Ctx) error {
	var req dto.ListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid query parameters"))
	}

	items, err := c.service.ListAuditLog(ctx.UserContext(), req)
	if err != nil {
		return serverutils.HandleDomainError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Audit log", items))
}
