package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testSchema() JSONSchema {
	return JSONSchema{
		Type:     "object",
		Required: []string{"nome", "email", "privacyConsent"},
		Properties: map[string]Property{
			"nome":           {Type: "string", MinLength: IntPtr(2), MaxLength: IntPtr(10)},
			"email":          {Type: "string", Format: "email"},
			"whatsapp":       {Type: "string", Format: "whatsapp"},
			"privacyConsent": {Type: "boolean", MustBeTrue: true},
			"Q1":             {Type: "string", Enum: []string{"A", "B", "C", "D"}},
			"cep":            {Type: "string", Pattern: StringPtr(`^\d{5}-\d{3}$`)},
		},
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name   string
		input  map[string]interface{}
		valid  bool
		fields []string
	}{
		{
			name: "valid submission",
			input: map[string]interface{}{
				"nome": "Ana", "email": "ana@empresa.com.br", "whatsapp": "(11) 99999-9999",
				"privacyConsent": true, "Q1": "C", "cep": "01310-100",
			},
			valid: true,
		},
		{
			name:   "blank required values",
			input:  map[string]interface{}{"nome": "  ", "email": "", "privacyConsent": true},
			fields: []string{"email", "nome"},
		},
		{
			name: "format and enum violations",
			input: map[string]interface{}{
				"nome": "Ana", "email": "ana@", "whatsapp": "123",
				"privacyConsent": false, "Q1": "Z",
			},
			fields: []string{"Q1", "email", "privacyConsent", "whatsapp"},
		},
		{
			name:   "wrong type and extra field",
			input:  map[string]interface{}{"nome": 12.0, "email": "a@b.co", "privacyConsent": true, "extra": 1},
			fields: []string{"extra", "nome"},
		},
		{
			name:   "length counts runes",
			input:  map[string]interface{}{"nome": "Conceição", "email": "a@b.co", "privacyConsent": true, "cep": "abc"},
			fields: []string{"cep"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateInput(tt.input, testSchema())
			assert.Equal(t, tt.valid, result.Valid, result.GetErrorMessages())
			if !tt.valid {
				assert.Equal(t, tt.fields, result.Fields())
			}
		})
	}
}

func TestValidateWhatsApp(t *testing.T) {
	valid := []string{"(11) 99999-9999", "11999999999", "+55 11 99999-9999", "+5511999999999", "(21) 3333-4444", "99999-9999"}
	invalid := []string{"", "123", "abc", "+1 415 555 0100", "(11) 99999-99999"}

	for _, phone := range valid {
		assert.True(t, ValidateWhatsApp(phone), phone)
	}
	for _, phone := range invalid {
		assert.False(t, ValidateWhatsApp(phone), phone)
	}
}

func TestFormatAndCleanWhatsApp(t *testing.T) {
	tests := []struct {
		in      string
		clean   string
		display string
		e164    string
	}{
		{"11999999999", "11999999999", "(11) 99999-9999", "+5511999999999"},
		{"+55 11 99999-9999", "11999999999", "(11) 99999-9999", "+5511999999999"},
		{"5521333344444", "21333344444", "(21) 33334-4444", "+5521333344444"},
		{"552133334444", "2133334444", "(21) 3333-4444", "+552133334444"},
		{"12345", "12345", "12345", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.clean, CleanWhatsApp(tt.in), tt.in)
		assert.Equal(t, tt.display, FormatWhatsApp(tt.in), tt.in)
		assert.Equal(t, tt.e164, E164BR(tt.in), tt.in)
	}
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("contato@empresa.com.br"))
	assert.True(t, ValidateEmail(" user.name+tag@sub.domain.io "))
	assert.False(t, ValidateEmail("sem-arroba.com"))
	assert.False(t, ValidateEmail("a@b.c"))
}
