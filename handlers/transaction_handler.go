package handlers

import (
	"errors"

	"fleamarket/internal/service"
	"fleamarket/middleware"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	Items *service.ItemService
}

func NewTransactionHandler(items *service.ItemService) *TransactionHandler {
	return &TransactionHandler{Items: items}
}

// Index - GET /items/:id/transactions
// Sellers cannot buy their own listing and are sent home.
func (h *TransactionHandler) Index(c *fiber.Ctx) error {
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
	if item.OwnedBy(middleware.CurrentUser(c).ID) {
		return c.Redirect("/", fiber.StatusFound)
	}
	return render(c, fiber.StatusOK, "transactions/index", fiber.Map{"Item": item})
}
