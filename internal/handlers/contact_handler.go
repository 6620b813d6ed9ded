package handlers

import (
	"ecobloom/internal/services"

	"github.com/gofiber/fiber/v2"
)

const maxContactPageSize = 100

// ContactHandler handles the public contact form and its admin inbox.
type ContactHandler struct {
	service *services.ContactService
}

func NewContactHandler(service *services.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

func (h *ContactHandler) RegisterRoutes(router fiber.Router, auth, admin fiber.Handler) {
	contacts := router.Group("/contacts")
	contacts.Post("/", h.HandleCreate)

	inbox := contacts.Group("/admin", auth, admin)
	inbox.Get("/", h.HandleList)
	inbox.Get("/:id", h.HandleGet)
	inbox.Patch("/:id/status", h.HandleStatus)
	inbox.Delete("/:id", h.HandleDelete)
}

type contactStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *ContactHandler) HandleCreate(c *fiber.Ctx) error {
	var req services.ContactInput
	if err := bind(c, &req); err != nil {
		return err
	}
	contact, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Thanks! We received your message.",
		"contact": fiber.Map{
			"id":        contact.ID,
			"name":      contact.Name,
			"email":     contact.Email,
			"phone":     contact.Phone,
			"status":    contact.Status,
			"createdAt": contact.CreatedAt,
		},
	})
}

func (h *ContactHandler) HandleList(c *fiber.Ctx) error {
	page := pagination(c, services.DefaultContactPageSize, maxContactPageSize)
	contacts, total, err := h.service.List(c.UserContext(), c.Query("q"), c.Query("status"), page)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "contacts": contacts, "total": total, "page": page.Page, "limit": page.Limit})
}

func (h *ContactHandler) HandleGet(c *fiber.Ctx) error {
	contact, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "contact": contact})
}

func (h *ContactHandler) HandleStatus(c *fiber.Ctx) error {
	var req contactStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	contact, err := h.service.SetStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Status updated", "contact": contact})
}

func (h *ContactHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Deleted"})
}
