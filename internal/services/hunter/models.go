// internal/services/hunter/models.go
package hunter

// Verification is the full report returned by the email verifier.
type Verification struct {
	Email      string `json:"email"`
	Result     string `json:"result"` // deliverable, undeliverable, risky, unknown
	Score      int    `json:"score"`
	Regexp     bool   `json:"regexp"`
	Gibberish  bool   `json:"gibberish"`
	Disposable bool   `json:"disposable"`
	Webmail    bool   `json:"webmail"`
	MXRecords  bool   `json:"mx_records"`
	SMTPServer bool   `json:"smtp_server"`
	SMTPCheck  bool   `json:"smtp_check"`
	AcceptAll  bool   `json:"accept_all"`
	Block      bool   `json:"block"`
}

type apiError struct {
	ID      string `json:"id"`
	Code    int    `json:"code"`
	Details string `json:"details"`
}

type verificationState struct {
	Result string `json:"result"`
}

type emailEntry struct {
	Value        string            `json:"value"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	Position     string            `json:"position"`
	Department   string            `json:"department"`
	Verification verificationState `json:"verification"`
}

type domainSearchResponse struct {
	Data struct {
		Domain       string       `json:"domain"`
		Organization string       `json:"organization"`
		Emails       []emailEntry `json:"emails"`
	} `json:"data"`
	Errors []apiError `json:"errors"`
}

type emailFinderResponse struct {
	Data struct {
		Email        string            `json:"email"`
		FirstName    string            `json:"first_name"`
		LastName     string            `json:"last_name"`
		Position     string            `json:"position"`
		Verification verificationState `json:"verification"`
	} `json:"data"`
	Errors []apiError `json:"errors"`
}

type emailVerifierResponse struct {
	Data   Verification `json:"data"`
	Errors []apiError   `json:"errors"`
}
