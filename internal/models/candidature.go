// internal/models/candidature.go
package models

import "time"

// Candidature is the canonical application record every downstream
// component operates on. The field mapper builds it from a raw payload;
// the repository assigns ID and SubmissionDate on save.
type Candidature struct {
	ID int64 `json:"id"`

	// General info
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Nationality  string `json:"nationality"`
	Gender       string `json:"gender"`
	DateOfBirth  string `json:"dateOfBirth"` // YYYY-MM-DD once normalized
	PlaceOfBirth string `json:"placeOfBirth"`
	PhoneNumber  string `json:"phoneNumber"`
	Email        string `json:"email"`
	Organization string `json:"organization,omitempty"`
	Country      string `json:"country"`

	// Professional details
	Department      string `json:"department,omitempty"`
	CurrentPosition string `json:"currentPosition"`
	TaskDescription string `json:"taskDescription"`

	// Education
	Diploma        string            `json:"diploma"`
	Institution    string            `json:"institution"`
	Field          string            `json:"field"`
	Languages      []string          `json:"languages"`
	LanguageLevels map[string]string `json:"languageLevels"`

	// Additional info
	ExpectedResults  string `json:"expectedResults"`
	OtherInformation string `json:"otherInformation,omitempty"`

	// Funding
	FundingSource   []string `json:"fundingSource"`
	InstitutionName string   `json:"institutionName,omitempty"`
	ContactPerson   string   `json:"contactPerson,omitempty"`
	ContactEmail    *string  `json:"contactEmail"`

	InformationSource string    `json:"informationSource"`
	Consent           bool      `json:"consent"`
	SubmissionDate    time.Time `json:"submissionDate"`
}

// CandidatureSummary is the subset returned by the HTTP layer after a
// successful submission.
type CandidatureSummary struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	SubmissionDate time.Time `json:"submissionDate"`
}

// Summary extracts the response subset from a saved record.
func (c *Candidature) Summary() CandidatureSummary {
	return CandidatureSummary{
		ID:             c.ID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		SubmissionDate: c.SubmissionDate,
	}
}
