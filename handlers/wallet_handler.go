package handlers

import (
	"net/http"
)

// WalletHandler serves the wallet lifecycle and the balance view.
type WalletHandler struct {
	Service OperationRunner
}

func NewWalletHandler(s OperationRunner) *WalletHandler {
	return &WalletHandler{Service: s}
}

// Connect performs the provider handshake.
// POST /wallet/connect
func (h *WalletHandler) Connect(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.ConnectWallet(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Disconnect resets the session.
// POST /wallet/disconnect
func (h *WalletHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DisconnectWallet(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Get returns the balance consumer view.
// GET /wallet
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.Wallet())
}
