package validator

import (
	"storefront/pkg/model"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactValidator_Valid(t *testing.T) {
	v := NewContactValidator()

	err := v.Validate(&model.BookingDraft{Email: "asha@example.com", Phone: "9876543210"})

	assert.NoError(t, err)
}

func TestContactValidator_NameIsOptional(t *testing.T) {
	v := NewContactValidator()

	err := v.Validate(&model.BookingDraft{Name: "", Email: "a@b.c", Phone: "0123456789"})

	assert.NoError(t, err)
}

func TestContactValidator_Phone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{name: "ten digits", phone: "1234567890", valid: true},
		{name: "too short", phone: "12345", valid: false},
		{name: "too long", phone: "12345678901", valid: false},
		{name: "letters", phone: "abcdefghij", valid: false},
		{name: "country code", phone: "+919876543210", valid: false},
		{name: "inner space", phone: "98765 4321", valid: false},
		{name: "leading space", phone: " 9876543210", valid: false},
		{name: "trailing space", phone: "9876543210 ", valid: false},
		{name: "tab and newline", phone: "\t9876543210\n", valid: false},
		{name: "non ascii digits", phone: "١٢٣٤٥٦٧٨٩٠", valid: false},
	}

	v := NewContactValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&model.BookingDraft{Email: "a@b.c", Phone: tt.phone})
			if tt.valid {
				assert.NoError(t, err)
				return
			}

			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, "Phone must be exactly 10 digits", verrs.Field("Phone"))
		})
	}
}

func TestContactValidator_MissingRequiredFields(t *testing.T) {
	v := NewContactValidator()

	err := v.Validate(&model.BookingDraft{})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
	assert.Equal(t, "Email is required", verrs.Field("Email"))
	assert.Equal(t, "Phone is required", verrs.Field("Phone"))
	assert.Equal(t, "validation failed: 2 error(s)", verrs.Error())
}

func TestContactValidator_MaxLength(t *testing.T) {
	v := NewContactValidator()

	err := v.Validate(&model.BookingDraft{
		Name:  strings.Repeat("a", 101),
		Email: "a@b.c",
		Phone: "1234567890",
	})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Name must be at most 100 characters", verrs.Field("Name"))
}
