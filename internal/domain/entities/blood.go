package entities

import (
	"fmt"
	"strings"
)

// BloodType represents one of the eight ABO/Rh blood groups
type BloodType string

const (
	BloodAPositive  BloodType = "A+"
	BloodANegative  BloodType = "A-"
	BloodBPositive  BloodType = "B+"
	BloodBNegative  BloodType = "B-"
	BloodABPositive BloodType = "AB+"
	BloodABNegative BloodType = "AB-"
	BloodOPositive  BloodType = "O+"
	BloodONegative  BloodType = "O-"
)

// BloodTypes lists all supported blood groups in display order.
var BloodTypes = []BloodType{
	BloodAPositive, BloodANegative,
	BloodBPositive, BloodBNegative,
	BloodABPositive, BloodABNegative,
	BloodOPositive, BloodONegative,
}

// donorCompatibility maps a recipient blood type to the donor types it can
// safely receive from. O- appears in every set (universal donor); AB+ can
// receive from all eight groups.
var donorCompatibility = map[BloodType][]BloodType{
	BloodAPositive:  {BloodAPositive, BloodANegative, BloodOPositive, BloodONegative},
	BloodANegative:  {BloodANegative, BloodONegative},
	BloodBPositive:  {BloodBPositive, BloodBNegative, BloodOPositive, BloodONegative},
	BloodBNegative:  {BloodBNegative, BloodONegative},
	BloodABPositive: {BloodAPositive, BloodANegative, BloodBPositive, BloodBNegative, BloodABPositive, BloodABNegative, BloodOPositive, BloodONegative},
	BloodABNegative: {BloodANegative, BloodBNegative, BloodABNegative, BloodONegative},
	BloodOPositive:  {BloodOPositive, BloodONegative},
	BloodONegative:  {BloodONegative},
}

// CompatibleDonorTypes returns the donor blood types a recipient of the
// given type may accept. The returned slice is a copy; the underlying table
// is never mutated.
func CompatibleDonorTypes(recipient BloodType) []BloodType {
	types, ok := donorCompatibility[recipient]
	if !ok {
		return nil
	}
	out := make([]BloodType, len(types))
	copy(out, types)
	return out
}

// ParseBloodType validates a raw blood type string. Malformed input is a
// caller programming error and fails fast.
func ParseBloodType(raw string) (BloodType, error) {
	bt := BloodType(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := donorCompatibility[bt]; !ok {
		return "", fmt.Errorf("unknown blood type %q", raw)
	}
	return bt, nil
}
