package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompatibleDonorTypes_UniversalDonor(t *testing.T) {
	for _, recipient := range BloodTypes {
		types := CompatibleDonorTypes(recipient)
		assert.Contains(t, types, BloodONegative, "O- must be acceptable for %s", recipient)
	}
}

func TestCompatibleDonorTypes_UniversalRecipient(t *testing.T) {
	types := CompatibleDonorTypes(BloodABPositive)
	assert.Len(t, types, len(BloodTypes))
}

func TestCompatibleDonorTypes_ONegativeOnlyAcceptsItself(t *testing.T) {
	types := CompatibleDonorTypes(BloodONegative)
	require.Len(t, types, 1)
	assert.Equal(t, BloodONegative, types[0])
}

func TestCompatibleDonorTypes_RhNegativeNeverAcceptsPositive(t *testing.T) {
	for _, recipient := range []BloodType{BloodANegative, BloodBNegative, BloodABNegative, BloodONegative} {
		for _, donor := range CompatibleDonorTypes(recipient) {
			assert.NotContains(t, string(donor), "+", "%s must not accept Rh-positive blood", recipient)
		}
	}
}

func TestCompatibleDonorTypes_UnknownType(t *testing.T) {
	assert.Nil(t, CompatibleDonorTypes("C+"))
}

func TestCompatibleDonorTypes_ReturnsCopy(t *testing.T) {
	types := CompatibleDonorTypes(BloodAPositive)
	types[0] = "mutated"

	fresh := CompatibleDonorTypes(BloodAPositive)
	assert.Equal(t, BloodAPositive, fresh[0])
}

func TestParseBloodType(t *testing.T) {
	bt, err := ParseBloodType("  o- ")
	require.NoError(t, err)
	assert.Equal(t, BloodONegative, bt)

	bt, err = ParseBloodType("ab+")
	require.NoError(t, err)
	assert.Equal(t, BloodABPositive, bt)

	_, err = ParseBloodType("O")
	assert.Error(t, err)

	_, err = ParseBloodType("")
	assert.Error(t, err)
}
