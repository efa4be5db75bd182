package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/pricebook-backend/api/responses"
	"github.com/angelmondragon/pricebook-backend/api/validators"
	"github.com/angelmondragon/pricebook-backend/internal/adjustments"
	"github.com/angelmondragon/pricebook-backend/pkg/logger"
)

type setAdjustmentRequest struct {
	PriceListGUID   string `json:"price_list_guid" validate:"required"`
	ConstituentGUID string `json:"constituent_guid" validate:"required"`
	Amount          string `json:"amount" validate:"required"`
}

type adjustmentResponse struct {
	GUID            string `json:"guid"`
	PriceListGUID   string `json:"price_list_guid"`
	ConstituentGUID string `json:"constituent_guid"`
	Amount          string `json:"amount"`
}

// AdjustmentSet creates or replaces the adjustment for one bundle constituent
// within one price list.
func AdjustmentSet(svc adjustments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload setAdjustmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amount, err := parseDecimal(payload.Amount, "amount")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Set(r.Context(), adjustments.SetAdjustmentInput{
			PriceListGUID:   strings.TrimSpace(payload.PriceListGUID),
			ConstituentGUID: strings.TrimSpace(payload.ConstituentGUID),
			Amount:          amount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, adjustmentResponse{
			GUID:            row.GUID,
			PriceListGUID:   row.PriceListGUID,
			ConstituentGUID: row.ConstituentGUID,
			Amount:          row.Amount.String(),
		})
	}
}

// AdjustmentRemove deletes an adjustment.
func AdjustmentRemove(svc adjustments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Remove(r.Context(), chi.URLParam(r, "adjustmentGUID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
