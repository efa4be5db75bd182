package enums

import "fmt"

// ConstituentItemKind identifies what a bundle constituent points at.
type ConstituentItemKind string

const (
	ConstituentItemProduct ConstituentItemKind = "product"
	ConstituentItemSKU     ConstituentItemKind = "sku"
	ConstituentItemBundle  ConstituentItemKind = "bundle"
)

var validConstituentItemKinds = []ConstituentItemKind{
	ConstituentItemProduct,
	ConstituentItemSKU,
	ConstituentItemBundle,
}

// String implements fmt.Stringer.
func (k ConstituentItemKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known ConstituentItemKind.
func (k ConstituentItemKind) IsValid() bool {
	for _, candidate := range validConstituentItemKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseConstituentItemKind converts raw input into a ConstituentItemKind.
func ParseConstituentItemKind(value string) (ConstituentItemKind, error) {
	for _, candidate := range validConstituentItemKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid constituent item kind %q", value)
}
