// internal/services/apollo/models.go
package apollo

type searchRequest struct {
	OrganizationNumEmployeesRanges []string `json:"organization_num_employees_ranges"`
	QOrganizationKeywordTags       []string `json:"q_organization_keyword_tags"`
	Page                           int      `json:"page"`
	PerPage                        int      `json:"per_page"`
	OrganizationLocations          []string `json:"organization_locations,omitempty"`
}

// Organization is the subset of the Apollo search response used to build
// Company records.
type Organization struct {
	Name                  string `json:"name"`
	WebsiteURL            string `json:"website_url"`
	EstimatedNumEmployees int    `json:"estimated_num_employees"`
	Industry              string `json:"industry"`
	City                  string `json:"city"`
	State                 string `json:"state"`
	Country               string `json:"country"`
}

// SearchResponse distinguishes a missing organizations key (API error) from
// an empty result set, so Organizations stays a nil-able slice.
type SearchResponse struct {
	Organizations []Organization `json:"organizations"`
	Error         string         `json:"error"`
}

type enrichRequest struct {
	Domain string `json:"domain"`
}
