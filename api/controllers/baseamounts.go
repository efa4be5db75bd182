package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricebook-backend/api/responses"
	"github.com/angelmondragon/pricebook-backend/api/validators"
	"github.com/angelmondragon/pricebook-backend/internal/baseamounts"
	"github.com/angelmondragon/pricebook-backend/pkg/db/models"
	"github.com/angelmondragon/pricebook-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricebook-backend/pkg/errors"
	"github.com/angelmondragon/pricebook-backend/pkg/logger"
	"github.com/angelmondragon/pricebook-backend/pkg/pagination"
)

type createBaseAmountRequest struct {
	GUID          string  `json:"guid,omitempty"`
	PriceListGUID string  `json:"price_list_guid" validate:"required"`
	ObjectGUID    string  `json:"object_guid" validate:"required"`
	ObjectType    string  `json:"object_type" validate:"required"`
	Quantity      string  `json:"quantity" validate:"required"`
	ListValue     string  `json:"list_value" validate:"required"`
	SaleValue     *string `json:"sale_value,omitempty"`
}

type updateBaseAmountRequest struct {
	ListValue *string `json:"list_value,omitempty"`
	SaleValue *string `json:"sale_value,omitempty"`
	ClearSale bool    `json:"clear_sale,omitempty"`
}

type baseAmountResponse struct {
	GUID          string    `json:"guid"`
	PriceListGUID string    `json:"price_list_guid"`
	ObjectGUID    string    `json:"object_guid"`
	ObjectType    string    `json:"object_type"`
	Quantity      int       `json:"quantity"`
	ListValue     string    `json:"list_value"`
	SaleValue     *string   `json:"sale_value,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func mapBaseAmount(row *models.BaseAmount) baseAmountResponse {
	out := baseAmountResponse{
		GUID:          row.GUID,
		PriceListGUID: row.PriceListGUID,
		ObjectGUID:    row.ObjectGUID,
		ObjectType:    string(row.ObjectType),
		Quantity:      row.Quantity,
		ListValue:     row.ListValue.String(),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if row.SaleValue != nil {
		value := row.SaleValue.String()
		out.SaleValue = &value
	}
	return out
}

// BaseAmountCreate persists a new price record in a price list.
func BaseAmountCreate(svc baseamounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createBaseAmountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, mapBaseAmount(row))
	}
}

// BaseAmountUpdate applies new values to an existing price record.
func BaseAmountUpdate(svc baseamounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateBaseAmountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := baseamounts.UpdateBaseAmountInput{ClearSale: payload.ClearSale}
		if payload.ListValue != nil {
			value, err := parseDecimal(*payload.ListValue, "list_value")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.ListValue = &value
		}
		if payload.SaleValue != nil {
			value, err := parseDecimal(*payload.SaleValue, "sale_value")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.SaleValue = &value
		}

		row, err := svc.Update(r.Context(), chi.URLParam(r, "baseAmountGUID"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, mapBaseAmount(row))
	}
}

// BaseAmountDelete removes a price record.
func BaseAmountDelete(svc baseamounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "baseAmountGUID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// BaseAmountList returns one page of a price list's base amounts.
func BaseAmountList(svc baseamounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		rows, next, err := svc.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("price_list_guid")), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]baseAmountResponse, 0, len(rows))
		for i := range rows {
			items = append(items, mapBaseAmount(&rows[i]))
		}
		responses.WriteSuccess(w, map[string]any{
			"items":       items,
			"next_cursor": next,
		})
	}
}

func (p createBaseAmountRequest) toInput() (baseamounts.CreateBaseAmountInput, error) {
	objectType, err := enums.ParseBaseAmountObjectType(strings.TrimSpace(p.ObjectType))
	if err != nil {
		return baseamounts.CreateBaseAmountInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid object_type")
	}

	quantity, err := parseDecimal(p.Quantity, "quantity")
	if err != nil {
		return baseamounts.CreateBaseAmountInput{}, err
	}
	listValue, err := parseDecimal(p.ListValue, "list_value")
	if err != nil {
		return baseamounts.CreateBaseAmountInput{}, err
	}

	input := baseamounts.CreateBaseAmountInput{
		GUID:          strings.TrimSpace(p.GUID),
		PriceListGUID: strings.TrimSpace(p.PriceListGUID),
		ObjectGUID:    strings.TrimSpace(p.ObjectGUID),
		ObjectType:    objectType,
		Quantity:      quantity,
		ListValue:     listValue,
	}
	if p.SaleValue != nil {
		saleValue, err := parseDecimal(*p.SaleValue, "sale_value")
		if err != nil {
			return baseamounts.CreateBaseAmountInput{}, err
		}
		input.SaleValue = &saleValue
	}
	return input, nil
}

func parseDecimal(raw, field string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, field+" must be a decimal number").WithDetails(map[string]any{"field": field})
	}
	return value, nil
}
