package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// CoerceDecimal parses a spreadsheet cell into a decimal. Anything that is
// not a plain number (including empty cells and locale-formatted values with
// grouping separators) coerces to zero, which is the contract for dirty
// export data: bad numerics are data-quality issues, not errors.
func CoerceDecimal(value string) decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero
	}
	dec, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return dec
}

// CoerceInt is CoerceDecimal truncated toward zero.
func CoerceInt(value string) int {
	return int(CoerceDecimal(value).IntPart())
}

// CoerceBool interprets a cell as a flag. Empty cells and the usual falsy
// spellings (including Portuguese ones) are false; everything else is true.
func CoerceBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false", "falso", "no", "não", "nao", "n":
		return false
	default:
		return true
	}
}

func IntPtr(v int) *int {
	return &v
}

func ProcessValidationErrors(err error) map[string]string {

	validationErrors := err.(validator.ValidationErrors)

	errorResponse := make(map[string]string)

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}
