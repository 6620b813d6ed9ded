package handlers

import (
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"strconv"
	"strings"

	"ecobloom/internal/apperrors"
	"ecobloom/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PlantHandler handles HTTP requests for the plant catalogue.
type PlantHandler struct {
	service *services.PlantService
}

// NewPlantHandler creates a new PlantHandler.
func NewPlantHandler(service *services.PlantService) *PlantHandler {
	return &PlantHandler{service: service}
}

// RegisterRoutes registers the plant routes; writes need an admin session.
func (h *PlantHandler) RegisterRoutes(router fiber.Router, auth, admin fiber.Handler) {
	plants := router.Group("/plants")
	plants.Get("/", h.HandleList)
	plants.Get("/category/:categoryId", h.HandleByCategory)
	plants.Get("/:id", h.HandleGet)
	plants.Post("/", auth, admin, h.HandleCreate)
	plants.Put("/:id", auth, admin, h.HandleUpdate)
	plants.Patch("/:id/availability", auth, admin, h.HandleAvailability)
	plants.Delete("/:id", auth, admin, h.HandleDelete)
}

type availabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

// HandleList serves the catalogue. "search" is accepted as an alias of "name".
func (h *PlantHandler) HandleList(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		name = c.Query("search")
	}
	page, err := h.service.List(c.UserContext(), services.PlantQuery{
		Name:       name,
		Category:   c.Query("category"),
		CategoryID: c.Query("categoryId"),
		Available:  optionalBool(c.Query("available")),
		Pagination: pagination(c, services.DefaultPlantPageSize, services.MaxPlantPageSize),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"plants":  page.Plants,
		"total":   page.Total,
		"page":    page.Page,
		"limit":   page.Limit,
	})
}

func (h *PlantHandler) HandleByCategory(c *fiber.Ctx) error {
	plants, err := h.service.ByCategory(c.UserContext(), c.Params("categoryId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "plants": plants})
}

func (h *PlantHandler) HandleGet(c *fiber.Ctx) error {
	plant, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "plant": plant})
}

func (h *PlantHandler) HandleCreate(c *fiber.Ctx) error {
	in, err := plantInput(c)
	if err != nil {
		return err
	}
	plant, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Plant created", "plant": plant})
}

func (h *PlantHandler) HandleUpdate(c *fiber.Ctx) error {
	in, err := plantInput(c)
	if err != nil {
		return err
	}
	plant, err := h.service.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Plant updated", "plant": plant})
}

func (h *PlantHandler) HandleAvailability(c *fiber.Ctx) error {
	var req availabilityRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	plant, err := h.service.SetAvailability(c.UserContext(), c.Params("id"), *req.Available)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Availability updated", "plant": plant})
}

func (h *PlantHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Plant deleted"})
}

// plantInput reads a multipart, urlencoded or JSON plant body.
func plantInput(c *fiber.Ctx) (services.PlantInput, error) {
	var (
		in     services.PlantInput
		fields = map[string]interface{}{}
		image  *multipart.FileHeader
	)
	contentType := strings.ToLower(c.Get(fiber.HeaderContentType))
	switch {
	case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return in, apperrors.Validation("Invalid request body")
		}
		for key, values := range form.Value {
			fields[key] = formValue(values)
		}
		if files := form.File["image"]; len(files) > 0 {
			image = files[0]
		}
	case strings.HasPrefix(contentType, fiber.MIMEApplicationForm):
		values := map[string][]string{}
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			values[string(k)] = append(values[string(k)], string(v))
		})
		for key, vs := range values {
			fields[key] = formValue(vs)
		}
	default:
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&fields); err != nil {
				return in, apperrors.Validation("Invalid request body")
			}
		}
	}

	if v, ok := fields["name"]; ok && v != nil {
		name := fmt.Sprint(v)
		in.Name = &name
	}
	if v, ok := fields["price"]; ok {
		price, err := parsePrice(v)
		if err != nil {
			return in, err
		}
		in.Price = price
	}
	if v, ok := fields["available"]; ok {
		available := parseAvailable(v)
		in.Available = &available
	}
	if image != nil {
		upload, err := readUpload(image)
		if err != nil {
			return in, err
		}
		in.Image = upload
	} else if v, ok := fields["image"].(string); ok {
		in.ImageURL = &v
	}

	in.Categories = map[string]interface{}{}
	for key, v := range fields {
		if strings.HasPrefix(key, "categor") {
			in.Categories[key] = v
		}
	}
	return in, nil
}

func formValue(values []string) interface{} {
	if len(values) == 1 {
		return values[0]
	}
	return values
}

// parsePrice returns nil for a blank value so that it counts as not supplied.
func parsePrice(v interface{}) (*float64, error) {
	switch x := v.(type) {
	case float64:
		return &x, nil
	case string:
		if strings.TrimSpace(x) == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, apperrors.Validation("Price must be a number")
		}
		return &f, nil
	case nil:
		return nil, nil
	default:
		return nil, apperrors.Validation("Price must be a number")
	}
}

// parseAvailable treats everything except false and "false" as available.
func parseAvailable(v interface{}) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return !strings.EqualFold(strings.TrimSpace(x), "false")
	}
	return true
}

func readUpload(fh *multipart.FileHeader) (*services.ImageUpload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.Validation("Invalid image upload")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.Validation("Invalid image upload")
	}
	return &services.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}
