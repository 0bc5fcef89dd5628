package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type subjectBody struct {
	Name             string  `json:"name" validate:"required,max=100"`
	DailyTargetHours float64 `json:"dailyTargetHours" validate:"gte=0.5,lte=12"`
	Color            string  `json:"color" validate:"omitempty,rgbhex"`
}

func TestFormatValidationErrors_UsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.ValidateStruct(subjectBody{DailyTargetHours: 20, Color: "blue"})
	require.Error(t, err)

	msgs := FormatValidationErrors(err)
	assert.Equal(t, "name is required", msgs["name"])
	assert.Contains(t, msgs["dailyTargetHours"], "less than or equal to 12")
	assert.Contains(t, msgs["color"], "hex color")
}

func TestValidateStruct_OK(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.ValidateStruct(subjectBody{Name: "Physics", DailyTargetHours: 2, Color: "#6366f1"}))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "derivative", SanitizeString("  deriv\x00ative \n"))
}

func TestRGBHex_RejectsAlphaColors(t *testing.T) {
	v := NewValidator()

	for _, color := range []string{"#fff", "#6366F1"} {
		assert.NoError(t, v.ValidateStruct(subjectBody{Name: "Physics", DailyTargetHours: 2, Color: color}), color)
	}
	for _, color := range []string{"#6366f1ff", "#ffff", "6366f1", "#ggg"} {
		err := v.ValidateStruct(subjectBody{Name: "Physics", DailyTargetHours: 2, Color: color})
		require.Error(t, err, color)
		assert.Contains(t, FormatValidationErrors(err)["color"], "hex color")
	}
}
