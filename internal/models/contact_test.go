// internal/models/contact_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContact_FullName(t *testing.T) {
	assert.Equal(t, "Jane Doe", Contact{FirstName: "Jane", LastName: "Doe"}.FullName())
	assert.Equal(t, "Jane", Contact{FirstName: "Jane"}.FullName())
	assert.Equal(t, "Doe", Contact{LastName: "Doe"}.FullName())
	assert.Equal(t, "", Contact{}.FullName())
}

func TestContact_Label(t *testing.T) {
	tests := []struct {
		name    string
		contact Contact
		want    string
	}{
		{"name and position", Contact{FirstName: "Jane", LastName: "Doe", Position: "CTO"}, "Jane Doe (CTO)"},
		{"name only", Contact{FirstName: "Jane", LastName: "Doe"}, "Jane Doe"},
		{"position only", Contact{Position: "CTO"}, "CTO"},
		{"neither", Contact{Email: "anon@acme.com"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.contact.Label())
		})
	}
}
