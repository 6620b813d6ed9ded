package handlers

import (
	"ecobloom/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes registers the order routes. Every route needs a session;
// the admin routes come before the ":id" ones so they are matched first.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth, admin fiber.Handler) {
	orders := router.Group("/orders", auth)
	orders.Get("/", admin, h.HandleListAll)
	orders.Get("/admin/stats/overview", admin, h.HandleStats)
	orders.Get("/admin/orders", admin, h.HandleSearch)
	orders.Patch("/admin/orders/:id/status", admin, h.HandleTrackingStatus)
	orders.Patch("/admin/orders/:id", admin, h.HandlePaymentStatusUpdate)
	orders.Delete("/admin/orders/:id", admin, h.HandleDelete)

	orders.Post("/", h.HandleCreate)
	orders.Get("/me", h.HandleListMine)
	orders.Get("/orders/:id/payment-status", h.HandlePaymentStatus)
	orders.Patch("/:id/status", admin, h.HandleUpdateStatus)
	orders.Patch("/:id/cancel", h.HandleCancel)
	orders.Get("/:id", h.HandleGet)
	orders.Delete("/:id", admin, h.HandleDelete)
}

type statusRequest struct {
	Status        string `json:"status" validate:"required"`
	PaymentStatus string `json:"paymentStatus"`
}

type trackingStatusRequest struct {
	OrderStatus string `json:"OrderStatus"`
}

type paymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required"`
}

func (h *OrderHandler) HandleCreate(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req services.CreateOrderInput
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := h.service.Create(c.UserContext(), p.UserID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Order created", "order": order})
}

func (h *OrderHandler) HandleListMine(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	page := pagination(c, services.DefaultOrderPageSize, services.MaxOrderPageSize)
	orders, total, err := h.service.ListMine(c.UserContext(), p.UserID, c.Query("status"), page)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "orders": orders, "page": page.Page, "limit": page.Limit, "total": total})
}

func (h *OrderHandler) HandleListAll(c *fiber.Ctx) error {
	page := pagination(c, services.DefaultOrderPageSize, services.MaxOrderPageSize)
	orders, total, err := h.service.ListAll(c.UserContext(), c.Query("status"), c.Query("userId"), page)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "orders": orders, "page": page.Page, "limit": page.Limit, "total": total})
}

func (h *OrderHandler) HandleGet(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	order, err := h.service.Get(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "order": order})
}

func (h *OrderHandler) HandleCancel(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	order, err := h.service.Cancel(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Order cancelled", "order": order})
}

func (h *OrderHandler) HandlePaymentStatus(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id := c.Params("id")
	status, err := h.service.PaymentStatus(c.UserContext(), p, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "orderId": id, "paymentStatus": status})
}

// HandleUpdateStatus overwrites the tracking status and, optionally, the payment status.
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := h.service.SetStatus(c.UserContext(), c.Params("id"), req.Status, req.PaymentStatus)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Order status updated", "order": order})
}

func (h *OrderHandler) HandleTrackingStatus(c *fiber.Ctx) error {
	var req trackingStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := h.service.SetStatus(c.UserContext(), c.Params("id"), req.OrderStatus, "")
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Order status updated to " + string(order.Status), "order": order})
}

func (h *OrderHandler) HandlePaymentStatusUpdate(c *fiber.Ctx) error {
	var req paymentStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := h.service.SetPaymentStatus(c.UserContext(), c.Params("id"), req.PaymentStatus)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "order": order})
}

func (h *OrderHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Order deleted"})
}

// HandleSearch is the admin order search over owner name, email and number.
func (h *OrderHandler) HandleSearch(c *fiber.Ctx) error {
	q := services.AdminOrderQuery{
		Q:             c.Query("q"),
		Status:        c.Query("status"),
		PaymentStatus: c.Query("paymentStatus"),
		PaymentMethod: c.Query("paymentMethod"),
		Pagination:    pagination(c, services.DefaultAdminOrderPageSize, services.MaxOrderPageSize),
	}
	orders, total, err := h.service.Search(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "orders": orders, "total": total, "page": q.Page, "limit": q.Limit})
}

func (h *OrderHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "overview": stats})
}
