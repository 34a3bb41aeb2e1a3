// internal/models/company.go
package models

// SearchCriteria is the immutable input to a single pipeline run.
type SearchCriteria struct {
	SizeRange string `json:"size_range"` // "min-max" employee range, e.g. "201-500"
	Industry  string `json:"industry"`
	Location  string `json:"location,omitempty"`
}

// Company is a prospect discovered through the company directory.
type Company struct {
	Name          string `json:"name"`
	Website       string `json:"website,omitempty"`
	EmployeeCount int    `json:"employee_count,omitempty"`
	Industry      string `json:"industry,omitempty"`
	Location      string `json:"location,omitempty"` // "city, state, country"
}
