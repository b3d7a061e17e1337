package handlers

import (
	"errors"
	"strconv"
	"strings"

	"fleamarket/internal/service"
	"fleamarket/middleware"
	"fleamarket/models"
	"fleamarket/utils"

	"github.com/gofiber/fiber/v2"
)

type ItemHandler struct {
	Items *service.ItemService
}

func NewItemHandler(items *service.ItemService) *ItemHandler {
	return &ItemHandler{Items: items}
}

// Index - GET /
func (h *ItemHandler) Index(c *fiber.Ctx) error {
	items, err := h.Items.List(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "items/index", fiber.Map{"Items": items})
}

// Show - GET /items/:id
func (h *ItemHandler) Show(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	item, err := h.Items.Find(c.UserContext(), id)
	if errors.Is(err, service.ErrItemNotFound) {
		return fiber.ErrNotFound
	}
	if err != nil {
		return err
	}

	isOwner := false
	if user := middleware.CurrentUser(c); user != nil {
		isOwner = item.OwnedBy(user.ID)
	}
	return render(c, fiber.StatusOK, "items/show", fiber.Map{
		"Item":    item,
		"IsOwner": isOwner,
	})
}

// New - GET /items/new
func (h *ItemHandler) New(c *fiber.Ctx) error {
	return renderItemForm(c, fiber.StatusOK, "items/new", "/items", models.ItemForm{}, nil)
}

// Create - POST /items
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	form := parseItemForm(c)

	_, err := h.Items.Create(c.UserContext(), user.ID, &form)
	if ve, ok := models.AsValidationError(err); ok {
		return renderItemForm(c, fiber.StatusUnprocessableEntity, "items/new", "/items", form, ve.Messages)
	}
	if err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusFound)
}

// Edit - GET /items/:id/edit
func (h *ItemHandler) Edit(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	item, err := h.Items.FindOwned(c.UserContext(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		return ownedItemError(c, err)
	}
	return renderItemForm(c, fiber.StatusOK, "items/edit", itemPath(item.ID), models.NewItemForm(item), nil)
}

// Update - PATCH /items/:id
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	form := parseItemForm(c)

	item, err := h.Items.Update(c.UserContext(), middleware.CurrentUser(c).ID, id, &form)
	if ve, ok := models.AsValidationError(err); ok {
		return renderItemForm(c, fiber.StatusUnprocessableEntity, "items/edit", itemPath(id), form, ve.Messages)
	}
	if err != nil {
		return ownedItemError(c, err)
	}
	return c.Redirect(itemPath(item.ID), fiber.StatusFound)
}

// Destroy - DELETE /items/:id
func (h *ItemHandler) Destroy(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Items.Delete(c.UserContext(), middleware.CurrentUser(c).ID, id); err != nil {
		return ownedItemError(c, err)
	}
	utils.SetFlash(c, utils.FlashItemDeleted)
	return c.Redirect("/", fiber.StatusFound)
}

// ownedItemError maps the ownership guard outcome: strangers go home silently.
func ownedItemError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrForbidden):
		return c.Redirect("/", fiber.StatusFound)
	case errors.Is(err, service.ErrItemNotFound):
		return fiber.ErrNotFound
	default:
		return err
	}
}

func itemPath(id uint) string {
	return "/items/" + strconv.FormatUint(uint64(id), 10)
}

func renderItemForm(c *fiber.Ctx, status int, view, action string, form models.ItemForm, errs []string) error {
	submit := "出品する"
	if view == "items/edit" {
		submit = "変更する"
	}
	return render(c, status, view, fiber.Map{
		"Form":        form,
		"Errors":      errs,
		"FormAction":  action,
		"SubmitLabel": submit,
		"Lookups":     models.LookupSets,
	})
}

func parseItemForm(c *fiber.Ctx) models.ItemForm {
	form := models.ItemForm{
		Name:                strings.TrimSpace(c.FormValue("item[name]")),
		Info:                strings.TrimSpace(c.FormValue("item[info]")),
		CategoryID:          formUint(c, "item[category_id]"),
		SalesStatusID:       formUint(c, "item[sales_status_id]"),
		ShippingFeeStatusID: formUint(c, "item[shipping_fee_status_id]"),
		PrefectureID:        formUint(c, "item[prefecture_id]"),
		ScheduledDeliveryID: formUint(c, "item[scheduled_delivery_id]"),
		Price:               strings.TrimSpace(c.FormValue("item[price]")),
	}
	// an empty file input still posts a part with no filename
	if fh, err := c.FormFile("item[image]"); err == nil && fh.Filename != "" && fh.Size > 0 {
		form.Image = fh
	}
	return form
}

func formUint(c *fiber.Ctx, key string) uint {
	n, err := strconv.ParseUint(c.FormValue(key), 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}
