package controller

import (
	"member-access-be/internal/pkg/serverutils"
	"member-access-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICatalogController interface {
	RegisterRoutes(r fiber.Router)
	GetProducts(ctx *fiber.Ctx) error
}

type catalogController struct {
	service service.ICatalogService
}

func NewCatalogController(service service.ICatalogService) ICatalogController {
	return &catalogController{service: service}
}

func (c *catalogController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/catalog")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/products", c.GetProducts)
}

func (c *catalogController) GetProducts(ctx *fiber.Ctx) error {
	products, err := c.service.GetProducts(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Product catalog", products))
}
