package handlers

import (
	"errors"
	"strconv"

	"fleamarket/internal/service"
	"fleamarket/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// APIHandler serves the read-only JSON API.
type APIHandler struct {
	DB    *gorm.DB
	Items *service.ItemService
}

func NewAPIHandler(db *gorm.DB, items *service.ItemService) *APIHandler {
	return &APIHandler{DB: db, Items: items}
}

func (h *APIHandler) toResponse(item *models.Item) models.ItemResponse {
	return models.NewItemResponse(item, h.Items.ImageURL(item))
}

// ListItems - GET /api/items?page=&limit=&category_id=
func (h *APIHandler) ListItems(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	if page > service.MaxPage {
		page = service.MaxPage
	}
	limit := c.QueryInt("limit", defaultPerPage)
	if limit < 1 || limit > maxPerPage {
		limit = defaultPerPage
	}
	categoryID := uint(c.QueryInt("category_id", 0))
	if categoryID != 0 && !models.Categories.Valid(categoryID) {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid category_id", nil))
	}

	items, total, err := h.Items.ListPage(c.UserContext(), categoryID, page, limit)
	if err != nil {
		return err
	}
	data := make([]models.ItemResponse, 0, len(items))
	for i := range items {
		data = append(data, h.toResponse(&items[i]))
	}
	return c.JSON(models.SuccessResponse("Items fetched", data, models.NewPaginationMeta(page, limit, total)))
}

// GetItem - GET /api/items/:id
func (h *APIHandler) GetItem(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.ErrNotFound
	}
	item, err := h.Items.Find(c.UserContext(), uint(id))
	if errors.Is(err, service.ErrItemNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Item not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Item fetched", h.toResponse(item), nil))
}

// GetLookups - GET /api/lookups/:kind
func (h *APIHandler) GetLookups(c *fiber.Ctx) error {
	set, ok := models.LookupSets[c.Params("kind")]
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Unknown lookup kind")
	}
	var rows []models.Lookup
	if err := h.DB.WithContext(c.UserContext()).Table(set.Kind).Order("id").Find(&rows).Error; err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Lookups fetched", rows, nil))
}
