package handler

import (
	"errors"

	"github.com/madxrebel/MStock/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// getUserID returns the authenticated admin id set by RequireAuth.
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system"
	}
	return userID.(string)
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrPartyNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrTransactionNotFound),
		errors.Is(err, service.ErrLineItemNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrAlreadyFinalized),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrSKUExists):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrCommitFailed):
		return fiber.StatusBadGateway
	case errors.Is(err, service.ErrReadFailed):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

// respondError maps a workflow error to its status code. Insufficient stock
// additionally carries the available quantity for the caller to display.
func respondError(c *fiber.Ctx, err error) error {
	body := fiber.Map{"error": err.Error()}

	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		body["product_id"] = stockErr.ProductID
		body["requested"] = stockErr.Requested
		body["available"] = stockErr.Available
	}

	return c.Status(errorStatus(err)).JSON(body)
}
