package handler

import (
	"github.com/madxrebel/MStock/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TransactionHandler struct {
	service service.WorkflowService
}

func NewTransactionHandler(s service.WorkflowService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

type issueRequest struct {
	PartyID uuid.UUID           `json:"party_id"`
	Items   []service.IssueItem `json:"items"`
}

type reconcileRequest struct {
	Updates []service.ReconcileUpdate `json:"updates"`
}

// Issue creates a transaction for a party and decrements stock atomically.
func (h *TransactionHandler) Issue(c *fiber.Ctx) error {
	var req issueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	transaction, err := h.service.Issue(getUserID(c), req.PartyID, req.Items)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Transaction issued", "data": transaction})
}

// Reconcile records the sold/returned split. Allowed once per transaction;
// the response lists any line whose value was capped at the issued quantity.
func (h *TransactionHandler) Reconcile(c *fiber.Ctx) error {
	txID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	var req reconcileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.Reconcile(getUserID(c), txID, req.Updates)
	if err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{"message": "Transaction reconciled", "data": result.Transaction}
	if len(result.ClampedLines) > 0 {
		resp["clamped_lines"] = result.ClampedLines
		resp["warning"] = "some values exceeded the issued quantity and were capped"
	}
	return c.JSON(resp)
}

func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	transactions, err := h.service.ListTransactions(getUserID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(transactions)
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	txID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	transaction, err := h.service.GetTransaction(getUserID(c), txID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(transaction)
}

func (h *TransactionHandler) GetPartyTransactions(c *fiber.Ctx) error {
	partyID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid party ID"})
	}

	transactions, err := h.service.ListTransactionsByParty(getUserID(c), partyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(transactions)
}
