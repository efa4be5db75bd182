package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/pricebook-backend/api/responses"
	"github.com/angelmondragon/pricebook-backend/api/validators"
	"github.com/angelmondragon/pricebook-backend/internal/pricelists"
	"github.com/angelmondragon/pricebook-backend/pkg/db/models"
	"github.com/angelmondragon/pricebook-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricebook-backend/pkg/errors"
	"github.com/angelmondragon/pricebook-backend/pkg/logger"
)

type createPriceListRequest struct {
	GUID        string  `json:"guid,omitempty"`
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description,omitempty"`
	Currency    string  `json:"currency" validate:"required"`
}

type assignPriceListRequest struct {
	CatalogGUID string   `json:"catalog_guid" validate:"required"`
	Priority    int      `json:"priority" validate:"min=0"`
	Stores      []string `json:"stores,omitempty"`
}

type priceListResponse struct {
	GUID        string    `json:"guid"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type assignmentResponse struct {
	GUID          string   `json:"guid"`
	PriceListGUID string   `json:"price_list_guid"`
	CatalogGUID   string   `json:"catalog_guid"`
	Priority      int      `json:"priority"`
	Stores        []string `json:"stores,omitempty"`
}

func mapPriceList(row *models.PriceList) priceListResponse {
	return priceListResponse{
		GUID:        row.GUID,
		Name:        row.Name,
		Description: row.Description,
		Currency:    string(row.Currency),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func mapAssignment(row *models.PriceListAssignment) assignmentResponse {
	return assignmentResponse{
		GUID:          row.GUID,
		PriceListGUID: row.PriceListGUID,
		CatalogGUID:   row.CatalogGUID,
		Priority:      row.Priority,
		Stores:        row.Stores,
	}
}

// PriceListCreate persists a new price list.
func PriceListCreate(svc pricelists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createPriceListRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		currency, err := enums.ParseCurrency(strings.TrimSpace(payload.Currency))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid currency"))
			return
		}

		row, err := svc.Create(r.Context(), pricelists.CreatePriceListInput{
			GUID:        strings.TrimSpace(payload.GUID),
			Name:        validators.SanitizeString(payload.Name, 255),
			Description: payload.Description,
			Currency:    currency,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, mapPriceList(row))
	}
}

// PriceListDelete removes a price list with its assignments and base amounts.
func PriceListDelete(svc pricelists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "priceListGUID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// PriceListIndex returns every price list.
func PriceListIndex(svc pricelists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items := make([]priceListResponse, 0, len(rows))
		for i := range rows {
			items = append(items, mapPriceList(&rows[i]))
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

// PriceListAssign adds a price list to a catalog's stack at a priority.
func PriceListAssign(svc pricelists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload assignPriceListRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Assign(r.Context(), pricelists.AssignInput{
			PriceListGUID: chi.URLParam(r, "priceListGUID"),
			CatalogGUID:   strings.TrimSpace(payload.CatalogGUID),
			Priority:      payload.Priority,
			Stores:        payload.Stores,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, mapAssignment(row))
	}
}

// PriceListUnassign removes a price list from a catalog's stack.
func PriceListUnassign(svc pricelists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Unassign(r.Context(), chi.URLParam(r, "assignmentGUID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
