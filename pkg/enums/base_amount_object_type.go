package enums

import (
	"fmt"
	"strings"
)

// BaseAmountObjectType identifies which catalog object a base amount prices.
type BaseAmountObjectType string

const (
	BaseAmountObjectTypeProduct BaseAmountObjectType = "PRODUCT"
	BaseAmountObjectTypeSKU     BaseAmountObjectType = "SKU"
)

var validBaseAmountObjectTypes = []BaseAmountObjectType{
	BaseAmountObjectTypeProduct,
	BaseAmountObjectTypeSKU,
}

// String implements fmt.Stringer.
func (t BaseAmountObjectType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known BaseAmountObjectType.
func (t BaseAmountObjectType) IsValid() bool {
	for _, candidate := range validBaseAmountObjectTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseBaseAmountObjectType converts raw input into a BaseAmountObjectType.
func ParseBaseAmountObjectType(value string) (BaseAmountObjectType, error) {
	value = strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validBaseAmountObjectTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid base amount object type %q", value)
}
