package transfer

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/mbongo-pay/mbongo_pay/internal/ledger"
)

// Handler exposes the transfer boundary over HTTP.
type Handler struct {
	service *Service
	timeout time.Duration
	logger  *slog.Logger
}

// NewHandler constructs a transfer handler. timeout bounds each attempt's
// atomic unit; an expired deadline aborts the unit and releases its locks.
func NewHandler(service *Service, timeout time.Duration, logger *slog.Logger) *Handler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Handler{service: service, timeout: timeout, logger: logger}
}

type transferRequest struct {
	SourceOwnerID       string `json:"source_owner_id"`
	DestinationWalletID string `json:"destination_wallet_id"`
	Amount              string `json:"amount"`
	Reference           string `json:"reference"`
}

type transferResponse struct {
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id,omitempty"`
	Amount        string `json:"amount,omitempty"`
	Reference     string `json:"reference,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// Create processes one wallet-to-wallet transfer attempt. The response body
// always carries a definitive status and, on failure, a machine-readable
// reason; no bare error ever reaches the caller.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, Result{Status: StatusFailed, Reason: ledger.ReasonMissingParameters})
	}

	amount := decimal.Zero
	if req.Amount != "" {
		parsed, err := decimal.NewFromString(req.Amount)
		if err != nil {
			return respond(c, Result{Status: StatusFailed, Reference: req.Reference, Reason: ledger.ReasonMissingParameters})
		}
		amount = parsed
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	res, err := h.service.Transfer(ctx, Input{
		SourceOwnerID:       req.SourceOwnerID,
		DestinationWalletID: req.DestinationWalletID,
		Amount:              amount,
		Reference:           req.Reference,
	})
	if err != nil && h.logger != nil {
		h.logger.Error("transfer aborted", "reference", req.Reference, "error", err)
	}

	return respond(c, res)
}

func respond(c *fiber.Ctx, res Result) error {
	body := transferResponse{
		Status:        string(res.Status),
		TransactionID: res.TransactionID,
		Reference:     res.Reference,
		Reason:        string(res.Reason),
	}
	if !res.Amount.IsZero() {
		body.Amount = res.Amount.String()
	}
	return c.Status(httpStatus(res)).JSON(body)
}

func httpStatus(res Result) int {
	if res.Status == StatusSuccess {
		return http.StatusCreated
	}
	switch res.Reason {
	case ledger.ReasonMissingParameters:
		return http.StatusBadRequest
	case ledger.ReasonInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}
