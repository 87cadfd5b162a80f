package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbongo-pay/mbongo_pay/internal/config"
	"github.com/mbongo-pay/mbongo_pay/internal/logging"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	err := Setup(app, Deps{
		Cfg:    config.Config{AppName: "test", AppEnv: "test", DefaultCurrency: "XAF"},
		Logger: logging.Discard(),
	})
	require.NoError(t, err)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload any) (int, map[string]any) {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Error responses from the default fiber handler are plain text.
	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = json.Unmarshal(raw, &decoded)
	return resp.StatusCode, decoded
}

func openWallet(t *testing.T, app *fiber.App, balance string) (ownerID, walletID string) {
	t.Helper()
	ownerID = uuid.NewString()
	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/wallets", fiber.Map{
		"owner_id":        ownerID,
		"opening_balance": balance,
	})
	require.Equal(t, fiber.StatusCreated, status, "open wallet: %v", body)
	walletID, _ = body["id"].(string)
	require.NotEmpty(t, walletID)
	return ownerID, walletID
}

func TestTransferEndToEnd(t *testing.T) {
	app := newTestApp(t)

	srcOwner, srcWallet := openWallet(t, app, "100")
	_, dstWallet := openWallet(t, app, "0")

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/transfers", fiber.Map{
		"source_owner_id":       srcOwner,
		"destination_wallet_id": dstWallet,
		"amount":                "40",
		"reference":             "e2e-1",
	})
	require.Equal(t, fiber.StatusCreated, status, "transfer: %v", body)
	assert.Equal(t, "SUCCESS", body["status"])
	assert.NotEmpty(t, body["transaction_id"])
	assert.Equal(t, "40", body["amount"])
	assert.Equal(t, "e2e-1", body["reference"])

	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/owners/"+srcOwner+"/balance", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "60", body["balance"])
	assert.Equal(t, "XAF", body["currency"])

	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/wallets/"+srcWallet+"/transactions", nil)
	require.Equal(t, fiber.StatusOK, status)
	entries, ok := body["transactions"].([]any)
	require.True(t, ok)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, "SUCCESS", entry["status"])
	assert.Equal(t, srcWallet, entry["from_wallet_id"])
	assert.Equal(t, dstWallet, entry["to_wallet_id"])
}

func TestTransferInsufficientBalanceOverHTTP(t *testing.T) {
	app := newTestApp(t)

	srcOwner, _ := openWallet(t, app, "10")
	_, dstWallet := openWallet(t, app, "0")

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/transfers", fiber.Map{
		"source_owner_id":       srcOwner,
		"destination_wallet_id": dstWallet,
		"amount":                "40",
		"reference":             "e2e-2",
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "FAILED", body["status"])
	assert.Equal(t, "INSUFFICIENT_BALANCE", body["reason"])

	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/owners/"+srcOwner+"/balance", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "10", body["balance"])
}

func TestTransferValidationOverHTTP(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/transfers", fiber.Map{
		"source_owner_id": "",
		"amount":          "5",
		"reference":       "e2e-3",
	})
	require.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "FAILED", body["status"])
	assert.Equal(t, "MISSING_PARAMETERS", body["reason"])
}

func TestTransferUnknownDestinationOverHTTP(t *testing.T) {
	app := newTestApp(t)

	srcOwner, _ := openWallet(t, app, "100")

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/transfers", fiber.Map{
		"source_owner_id":       srcOwner,
		"destination_wallet_id": uuid.NewString(),
		"amount":                "5",
		"reference":             "e2e-4",
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "DESTINATION_WALLET_NOT_FOUND", body["reason"])
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/healthz", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestWalletNotFoundOverHTTP(t *testing.T) {
	app := newTestApp(t)

	status, _ := doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/v1/owners/%s/balance", uuid.NewString()), nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}
