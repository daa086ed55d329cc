package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/middlewares"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/Rakhulsr/go-storefront/app/utils/format"
	"github.com/unrolled/render"
)

type WalletHandler struct {
	walletService *services.WalletService
	render        *render.Render
}

func NewWalletHandler(walletService *services.WalletService, rnd *render.Render) *WalletHandler {
	return &WalletHandler{walletService: walletService, render: rnd}
}

func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.walletService.GetWallet(r.Context(), middlewares.UserID(r))
	if err != nil {
		RespondError(h.render, w, err)
		return
	}

	type txView struct {
		Type      string `json:"type"`
		Amount    string `json:"amount"`
		Reason    string `json:"reason"`
		OrderCode string `json:"order_code,omitempty"`
		Date      string `json:"date"`
	}

	transactions := make([]txView, 0, len(wallet.Transactions))
	for _, tx := range wallet.Transactions {
		transactions = append(transactions, txView{
			Type:      tx.Type,
			Amount:    format.INR(tx.Amount),
			Reason:    tx.Reason,
			OrderCode: tx.OrderCode,
			Date:      tx.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	RespondOK(h.render, w, map[string]interface{}{
		"balance":      format.INR(wallet.Balance),
		"transactions": transactions,
	})
}
