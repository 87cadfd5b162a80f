package wallet

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/mbongo-pay/mbongo_pay/internal/ledger"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
	entries ledger.Ledger
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service, entries ledger.Ledger) *Handler {
	return &Handler{service: service, entries: entries}
}

type openRequest struct {
	OwnerID        string `json:"owner_id"`
	Currency       string `json:"currency"`
	OpeningBalance string `json:"opening_balance"`
}

type walletResponse struct {
	ID       string `json:"id"`
	OwnerID  string `json:"owner_id"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

// Open provisions a wallet with an explicit opening balance.
func (h *Handler) Open(c *fiber.Ctx) error {
	var req openRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	opening := decimal.Zero
	if req.OpeningBalance != "" {
		parsed, err := decimal.NewFromString(req.OpeningBalance)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid opening_balance")
		}
		opening = parsed
	}

	w, err := h.service.Open(c.UserContext(), OpenInput{
		OwnerID:        req.OwnerID,
		Currency:       req.Currency,
		OpeningBalance: opening,
	})
	if err != nil {
		if errors.Is(err, ErrExists) {
			return fiber.NewError(http.StatusConflict, "owner already has a wallet")
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(walletResponse{
		ID:       w.ID,
		OwnerID:  w.OwnerID,
		Balance:  w.Balance.String(),
		Currency: w.Currency,
	})
}

// Get returns wallet metadata by wallet identifier.
func (h *Handler) Get(c *fiber.Ctx) error {
	w, err := h.service.Get(c.UserContext(), c.Params("walletId"))
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "wallet not found")
	}
	return c.JSON(walletResponse{
		ID:       w.ID,
		OwnerID:  w.OwnerID,
		Balance:  w.Balance.String(),
		Currency: w.Currency,
	})
}

// Balance answers the balance query boundary by owner identifier.
func (h *Handler) Balance(c *fiber.Ctx) error {
	b, err := h.service.BalanceByOwner(c.UserContext(), c.Params("ownerId"))
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "wallet not found")
	}
	return c.JSON(fiber.Map{
		"wallet_id": b.WalletID,
		"owner_id":  b.OwnerID,
		"balance":   b.Amount.String(),
		"currency":  b.Currency,
		"as_of":     b.AsOf,
	})
}

// Transactions lists the wallet's most recent ledger entries.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	walletID := c.Params("walletId")
	if _, err := h.service.Get(c.UserContext(), walletID); err != nil {
		return fiber.NewError(http.StatusNotFound, "wallet not found")
	}

	entries, err := h.entries.ListByWallet(c.UserContext(), walletID, c.QueryInt("limit", 50))
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "list transactions")
	}

	items := make([]fiber.Map, 0, len(entries))
	for _, e := range entries {
		item := fiber.Map{
			"id":           e.ID,
			"to_wallet_id": e.ToWalletID,
			"amount":       e.Amount.String(),
			"reference":    e.Reference,
			"type":         e.Type,
			"status":       e.Status,
			"created_at":   e.CreatedAt,
		}
		if e.FromWalletID != "" {
			item["from_wallet_id"] = e.FromWalletID
		}
		if e.Reason != "" {
			item["reason"] = e.Reason
		}
		items = append(items, item)
	}
	return c.JSON(fiber.Map{"wallet_id": walletID, "transactions": items})
}
