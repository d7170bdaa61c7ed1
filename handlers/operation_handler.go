// Package handlers exposes the orchestrator over HTTP: operation intents,
// the newest-first operation history, and the wallet balance view. Handlers
// are thin adapters; all lifecycle logic lives in the services package.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/krispycake/solmint/faults"
	"github.com/krispycake/solmint/models"
	"github.com/krispycake/solmint/services"
	"github.com/krispycake/solmint/wallet"
)

// OperationRunner is the slice of the operation service the HTTP surface
// needs.
type OperationRunner interface {
	CreateAsset(ctx context.Context, name, symbol string, decimals uint8) *services.CreateAssetResult
	MintSupply(ctx context.Context, assetAddress, destinationAddress, displayAmount string) *services.OperationResult
	TransferHoldings(ctx context.Context, assetAddress, recipientAddress, displayAmount string) *services.OperationResult
	TrackExternalAsset(ctx context.Context, address, symbol, name string) (models.AssetHandle, error)
	ConnectWallet(ctx context.Context) (wallet.View, error)
	DisconnectWallet(ctx context.Context) error
	History() []models.OperationRecord
	Wallet() wallet.View
}

// OperationHandler serves operation intents and the history snapshot.
type OperationHandler struct {
	Service OperationRunner
}

func NewOperationHandler(s OperationRunner) *OperationHandler {
	return &OperationHandler{Service: s}
}

type CreateAssetRequest struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// CreateAsset submits a create-asset operation.
// POST /operations/create-asset
func (h *OperationHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req CreateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Symbol == "" {
		http.Error(w, "name and symbol are required", http.StatusBadRequest)
		return
	}

	result := h.Service.CreateAsset(r.Context(), req.Name, req.Symbol, req.Decimals)
	if result == nil {
		writeFailure(w)
		return
	}
	writeJSON(w, http.StatusAccepted, result)
}

type MintSupplyRequest struct {
	AssetAddress       string `json:"asset_address"`
	DestinationAddress string `json:"destination_address,omitempty"`
	Amount             string `json:"amount"`
}

// MintSupply submits a mint operation.
// POST /operations/mint
func (h *OperationHandler) MintSupply(w http.ResponseWriter, r *http.Request) {
	var req MintSupplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := h.Service.MintSupply(r.Context(), req.AssetAddress, req.DestinationAddress, req.Amount)
	if result == nil {
		writeFailure(w)
		return
	}
	writeJSON(w, http.StatusAccepted, result)
}

type TransferRequest struct {
	AssetAddress     string `json:"asset_address"`
	RecipientAddress string `json:"recipient_address"`
	Amount           string `json:"amount"`
}

// TransferHoldings submits a transfer operation.
// POST /operations/transfer
func (h *OperationHandler) TransferHoldings(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := h.Service.TransferHoldings(r.Context(), req.AssetAddress, req.RecipientAddress, req.Amount)
	if result == nil {
		writeFailure(w)
		return
	}
	writeJSON(w, http.StatusAccepted, result)
}

// History returns all operation records, newest first.
// GET /operations
func (h *OperationHandler) History(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.History())
}

type TrackAssetRequest struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
}

// TrackAsset registers an externally created asset for balance tracking.
// POST /assets
func (h *OperationHandler) TrackAsset(w http.ResponseWriter, r *http.Request) {
	var req TrackAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	handle, err := h.Service.TrackExternalAsset(r.Context(), req.Address, req.Symbol, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, handle)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
		"error": "operation failed; consult the operation history",
	})
}

func writeError(w http.ResponseWriter, err error) {
	var fe *faults.Error
	if errors.As(err, &fe) {
		status := http.StatusUnprocessableEntity
		if fe.Class == faults.ClassValidation {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, fe)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
