package handler

import (
	"github.com/madxrebel/MStock/internal/model"
	"github.com/madxrebel/MStock/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PartyHandler struct {
	service service.PartyService
}

func NewPartyHandler(s service.PartyService) *PartyHandler {
	return &PartyHandler{service: s}
}

func (h *PartyHandler) CreateParty(c *fiber.Ctx) error {
	var party model.Party
	if err := c.BodyParser(&party); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.RegisterParty(&party, getUserID(c)); err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Party registered", "data": party})
}

// GetParties lists the owner's parties; ?type=SUPPLIER or ?type=SHOPKEEPER
// narrows the result.
func (h *PartyHandler) GetParties(c *fiber.Ctx) error {
	partyType := model.PartyType(c.Query("type"))

	parties, err := h.service.ListParties(getUserID(c), partyType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(parties)
}

func (h *PartyHandler) GetParty(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid party ID"})
	}

	party, err := h.service.GetParty(getUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(party)
}

func (h *PartyHandler) DeleteParty(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid party ID"})
	}

	if err := h.service.DeleteParty(getUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Party deleted"})
}
