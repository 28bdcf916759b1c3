// internal/candidature/validator.go
package candidature

import (
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	"candidature-api/internal/common/errors"
	"candidature-api/internal/models"
)

// constraintCheck inspects one canonical field and returns a violation
// message, or the empty string when the field satisfies its constraint.
type constraintCheck func(*models.Candidature) string

// fieldConstraint is one row of the constraint table. Field names match
// the canonical payload names so violations read naturally to API callers.
type fieldConstraint struct {
	field string
	check constraintCheck
}

var constraintTable = []fieldConstraint{
	{"firstName", requiredString(func(c *models.Candidature) string { return c.FirstName })},
	{"lastName", requiredString(func(c *models.Candidature) string { return c.LastName })},
	{"nationality", requiredString(func(c *models.Candidature) string { return c.Nationality })},
	{"gender", requiredString(func(c *models.Candidature) string { return c.Gender })},
	{"dateOfBirth", checkDateOfBirth},
	{"placeOfBirth", requiredString(func(c *models.Candidature) string { return c.PlaceOfBirth })},
	{"phoneNumber", requiredString(func(c *models.Candidature) string { return c.PhoneNumber })},
	{"email", checkEmail},
	{"country", requiredString(func(c *models.Candidature) string { return c.Country })},
	{"currentPosition", requiredString(func(c *models.Candidature) string { return c.CurrentPosition })},
	{"taskDescription", requiredString(func(c *models.Candidature) string { return c.TaskDescription })},
	{"diploma", requiredString(func(c *models.Candidature) string { return c.Diploma })},
	{"institution", requiredString(func(c *models.Candidature) string { return c.Institution })},
	{"field", requiredString(func(c *models.Candidature) string { return c.Field })},
	{"languages", checkLanguages},
	{"expectedResults", requiredString(func(c *models.Candidature) string { return c.ExpectedResults })},
	{"fundingSource", checkFundingSource},
	{"informationSource", requiredString(func(c *models.Candidature) string { return c.InformationSource })},
	{"contactEmail", checkContactEmail},
}

// Validate checks every constraint and collects all violations instead of
// stopping at the first, so a caller can fix a bad payload in one pass.
// Optional free-text fields (organization, department, otherInformation,
// institutionName, contactPerson) and consent carry no runtime constraint
// beyond their static type.
func Validate(c *models.Candidature) []errors.FieldViolation {
	return validateFields(c, nil)
}

// ValidatePartial checks only the named canonical fields, skipping the
// rest. Partial updates use it so fields absent from the update set are
// not reported, while supplied fields still have to satisfy their
// constraint.
func ValidatePartial(c *models.Candidature, fields map[string]bool) []errors.FieldViolation {
	return validateFields(c, fields)
}

func validateFields(c *models.Candidature, only map[string]bool) []errors.FieldViolation {
	var violations []errors.FieldViolation
	for _, constraint := range constraintTable {
		if only != nil && !only[constraint.field] {
			continue
		}
		if msg := constraint.check(c); msg != "" {
			violations = append(violations, errors.FieldViolation{
				Field:   constraint.field,
				Message: constraint.field + " " + msg,
			})
		}
	}
	return violations
}

// ViolationError folds a violation list into the structured error the
// HTTP layer renders, with a single joined message for human readers.
func ViolationError(violations []errors.FieldViolation) *errors.StandardError {
	messages := make([]string, 0, len(violations))
	for _, v := range violations {
		messages = append(messages, v.Message)
	}
	return errors.NewValidationFailedError(strings.Join(messages, "; "), violations)
}

func requiredString(get func(*models.Candidature) string) constraintCheck {
	return func(c *models.Candidature) string {
		if strings.TrimSpace(get(c)) == "" {
			return "should not be empty"
		}
		return ""
	}
}

func checkEmail(c *models.Candidature) string {
	if strings.TrimSpace(c.Email) == "" {
		return "should not be empty"
	}
	if !govalidator.IsEmail(c.Email) {
		return "must be an email"
	}
	return ""
}

func checkContactEmail(c *models.Candidature) string {
	if c.ContactEmail == nil {
		return ""
	}
	if !govalidator.IsEmail(*c.ContactEmail) {
		return "must be an email"
	}
	return ""
}

func checkDateOfBirth(c *models.Candidature) string {
	if strings.TrimSpace(c.DateOfBirth) == "" {
		return "should not be empty"
	}
	if _, err := time.Parse("2006-01-02", c.DateOfBirth); err != nil {
		return "must be a valid ISO 8601 date string"
	}
	return ""
}

func checkLanguages(c *models.Candidature) string {
	if c.Languages == nil {
		return "must be an array"
	}
	return ""
}

func checkFundingSource(c *models.Candidature) string {
	if len(c.FundingSource) == 0 {
		return "should not be empty"
	}
	return ""
}
