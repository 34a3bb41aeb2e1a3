// internal/models/contact.go
package models

import (
	"fmt"
	"strings"
)

// Contact is a decision-maker email discovered for a company domain.
type Contact struct {
	Email      string `json:"email"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Position   string `json:"position,omitempty"`
	Department string `json:"department,omitempty"`
	Verified   bool   `json:"verified"`
}

// FullName joins first and last name, trimming when either is missing.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Label renders the contact for display as "Name (Position)", degrading to
// whichever part is present. This is the single display format used by both
// the run summary and the exported rows.
func (c Contact) Label() string {
	name := c.FullName()
	switch {
	case name != "" && c.Position != "":
		return fmt.Sprintf("%s (%s)", name, c.Position)
	case name != "":
		return name
	case c.Position != "":
		return c.Position
	default:
		return ""
	}
}
