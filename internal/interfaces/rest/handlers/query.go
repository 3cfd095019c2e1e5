package handlers

import (
	"net/http"

	"github.com/fluxpay/payment-gateway/internal/application"
	"github.com/fluxpay/payment-gateway/internal/interfaces/rest"
	"github.com/go-chi/chi/v5"
)

// GetPayment handles GET /api/payments/{id}.
func (h *Handlers) GetPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	payment, err := h.finder.FindByID(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	if payment == nil {
		rest.WriteError(w, application.NewPaymentNotFoundError(id))
		return
	}

	rest.WriteJSON(w, http.StatusOK, payment)
}
