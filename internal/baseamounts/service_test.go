package baseamounts

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricebook-backend/pkg/db/models"
	"github.com/angelmondragon/pricebook-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricebook-backend/pkg/errors"
)

func validCreateInput() CreateBaseAmountInput {
	return CreateBaseAmountInput{
		PriceListGUID: "pl-1",
		ObjectGUID:    "SKU-1",
		ObjectType:    enums.BaseAmountObjectTypeSKU,
		Quantity:      decimal.NewFromInt(1),
		ListValue:     decimal.RequireFromString("10.00"),
	}
}

func TestValidateCreateInputSuccess(t *testing.T) {
	if err := validateCreateInput(validCreateInput()); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
}

func TestValidateCreateInputFractionalQuantity(t *testing.T) {
	input := validCreateInput()
	input.Quantity = decimal.RequireFromString("1.5")

	err := validateCreateInput(input)
	if err == nil {
		t.Fatal("expected validation error for fractional quantity")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error code, got %v", err)
	}
	details, ok := typed.Details().([]string)
	if !ok || len(details) != 1 {
		t.Fatalf("expected one detail entry, got %v", typed.Details())
	}
}

func TestValidateCreateInputCollectsAllFailures(t *testing.T) {
	input := CreateBaseAmountInput{
		ObjectType: enums.BaseAmountObjectType("WAREHOUSE"),
		Quantity:   decimal.NewFromInt(0),
		ListValue:  decimal.RequireFromString("-1.00"),
	}

	err := validateCreateInput(input)
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().([]string)
	if !ok {
		t.Fatalf("expected string details, got %T", typed.Details())
	}
	// price_list_guid, object_guid, object_type, quantity, list_value.
	if len(details) != 5 {
		t.Fatalf("expected 5 details, got %d: %v", len(details), details)
	}
}

func TestValidateCreateInputNegativeSale(t *testing.T) {
	input := validCreateInput()
	sale := decimal.RequireFromString("-0.01")
	input.SaleValue = &sale

	if err := validateCreateInput(input); err == nil {
		t.Fatal("expected validation error for negative sale value")
	}
}

func TestValidateCreateInputSaleAboveList(t *testing.T) {
	input := validCreateInput()
	sale := decimal.RequireFromString("20.00")
	input.SaleValue = &sale

	err := validateCreateInput(input)
	if err == nil {
		t.Fatal("expected validation error when sale exceeds list")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error code, got %v", err)
	}
}

func TestValidateCreateInputSaleEqualToListAllowed(t *testing.T) {
	input := validCreateInput()
	sale := decimal.RequireFromString("10.00")
	input.SaleValue = &sale

	if err := validateCreateInput(input); err != nil {
		t.Fatalf("sale equal to list must be allowed, got %v", err)
	}
}

func TestValidateMergedValuesCatchesLoweredList(t *testing.T) {
	sale := decimal.RequireFromString("9.00")
	row := &models.BaseAmount{
		ListValue: decimal.RequireFromString("8.00"),
		SaleValue: &sale,
	}

	err := validateMergedValues(row)
	if err == nil {
		t.Fatal("expected validation error when list drops below the kept sale value")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error code, got %v", err)
	}

	row.ListValue = decimal.RequireFromString("9.00")
	if err := validateMergedValues(row); err != nil {
		t.Fatalf("sale equal to list must be allowed, got %v", err)
	}
}

func TestValidateUpdateInput(t *testing.T) {
	if err := validateUpdateInput(UpdateBaseAmountInput{}); err == nil {
		t.Fatal("expected error when no fields are set")
	}

	list := decimal.RequireFromString("12.00")
	if err := validateUpdateInput(UpdateBaseAmountInput{ListValue: &list}); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	sale := decimal.RequireFromString("9.00")
	err := validateUpdateInput(UpdateBaseAmountInput{SaleValue: &sale, ClearSale: true})
	if err == nil {
		t.Fatal("expected error when sale_value and clear_sale are both set")
	}
}
