package enums

import "fmt"

// SelectionRuleType governs how many constituents of a bundle are selected by default.
type SelectionRuleType string

const (
	SelectionRuleAll           SelectionRuleType = "select_all"
	SelectionRuleOne           SelectionRuleType = "select_one"
	SelectionRuleParameterized SelectionRuleType = "select_n"
)

var validSelectionRuleTypes = []SelectionRuleType{
	SelectionRuleAll,
	SelectionRuleOne,
	SelectionRuleParameterized,
}

// String implements fmt.Stringer.
func (t SelectionRuleType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known SelectionRuleType.
func (t SelectionRuleType) IsValid() bool {
	for _, candidate := range validSelectionRuleTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseSelectionRuleType converts raw input into a SelectionRuleType.
func ParseSelectionRuleType(value string) (SelectionRuleType, error) {
	for _, candidate := range validSelectionRuleTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid selection rule type %q", value)
}
