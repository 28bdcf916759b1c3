// internal/candidature/mapper_test.go
package candidature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func frenchPayload() map[string]interface{} {
	return map[string]interface{}{
		"prenom":                    "Jean",
		"nom":                       "Dupont",
		"nationalite":               "Française",
		"sexe":                      "M",
		"date_naissance":            "1990-01-01",
		"lieu_naissance":            "Lyon",
		"telephone":                 "+33612345678",
		"email":                     "jean.dupont@example.com",
		"organisation":              "ACME",
		"pays":                      "France",
		"departement":               "Informatique",
		"poste_actuel":              "Ingénieur",
		"description_taches":        "Développement logiciel",
		"diplome":                   "Master",
		"institution_etudes":        "Université de Lyon",
		"domaine":                   "Informatique",
		"langues":                   []interface{}{"Français", "Anglais"},
		"niveaux":                   map[string]interface{}{"Anglais": "B2"},
		"resultats_attendus":        "Certification",
		"autres_infos":              "Aucune",
		"mode_financement":          "self",
		"institution_financement":   "ACME",
		"contact_financement":       "Marie Martin",
		"email_contact_financement": "marie@example.com",
		"source_information":        "Site web",
		"consentement":              true,
	}
}

func englishFlatPayload() map[string]interface{} {
	return map[string]interface{}{
		"firstName":         "Jane",
		"lastName":          "Smith",
		"nationality":       "British",
		"gender":            "F",
		"dateOfBirth":       "1985-06-15",
		"placeOfBirth":      "London",
		"phoneNumber":       "+447700900123",
		"email":             "jane.smith@example.com",
		"country":           "United Kingdom",
		"currentPosition":   "Analyst",
		"taskDescription":   "Data analysis",
		"diploma":           "BSc",
		"institution":       "UCL",
		"field":             "Statistics",
		"languages":         []interface{}{"English"},
		"expectedResults":   "New skills",
		"fundingSource":     []interface{}{"employer"},
		"informationSource": "Colleague",
		"consent":           true,
	}
}

// ==========================
// Core Mapping Tests
// ==========================

func TestMapPayload_FrenchFlat(t *testing.T) {
	c, err := MapPayload(frenchPayload(), FormatFrenchFlat)
	require.NoError(t, err)

	assert.Equal(t, "Jean", c.FirstName)
	assert.Equal(t, "Dupont", c.LastName)
	assert.Equal(t, "Française", c.Nationality)
	assert.Equal(t, "1990-01-01", c.DateOfBirth)
	assert.Equal(t, "jean.dupont@example.com", c.Email)
	assert.Equal(t, "Informatique", c.Field)
	assert.Equal(t, []string{"Français", "Anglais"}, c.Languages)
	assert.Equal(t, map[string]string{"Anglais": "B2"}, c.LanguageLevels)
	assert.Equal(t, []string{"self"}, c.FundingSource)
	require.NotNil(t, c.ContactEmail)
	assert.Equal(t, "marie@example.com", *c.ContactEmail)
	assert.True(t, c.Consent)
}

func TestMapPayload_FrenchFlat_CaseInsensitiveKeys(t *testing.T) {
	payload := map[string]interface{}{
		"Prenom":         "Jean",
		"NOM":            "Dupont",
		"Date_Naissance": "1990-01-01",
	}

	c, err := MapPayload(payload, FormatFrenchFlat)
	require.NoError(t, err)

	assert.Equal(t, "Jean", c.FirstName)
	assert.Equal(t, "Dupont", c.LastName)
	assert.Equal(t, "1990-01-01", c.DateOfBirth)
}

func TestMapPayload_EnglishFlat_RoundTrip(t *testing.T) {
	// A payload already in canonical names maps to itself.
	c, err := MapPayload(englishFlatPayload(), FormatEnglishFlat)
	require.NoError(t, err)

	assert.Equal(t, "Jane", c.FirstName)
	assert.Equal(t, "Smith", c.LastName)
	assert.Equal(t, "jane.smith@example.com", c.Email)
	assert.Equal(t, "1985-06-15", c.DateOfBirth)
	assert.Equal(t, []string{"English"}, c.Languages)
	assert.Equal(t, []string{"employer"}, c.FundingSource)
	assert.True(t, c.Consent)
}

func TestMapPayload_EnglishFlat_IgnoresFrenchSynonyms(t *testing.T) {
	// Synonyms are only honored on the French path.
	payload := map[string]interface{}{
		"firstName": "Jane",
		"nom":       "Dupont",
	}

	c, err := MapPayload(payload, FormatEnglishFlat)
	require.NoError(t, err)

	assert.Equal(t, "Jane", c.FirstName)
	assert.Equal(t, "", c.LastName)
}

func TestMapPayload_EnglishNested(t *testing.T) {
	payload := map[string]interface{}{
		"generalInfo": map[string]interface{}{
			"firstName":   "Jane",
			"lastName":    "Smith",
			"email":       "jane@example.com",
			"dateOfBirth": "1985-06-15",
		},
		"professionalDetails": map[string]interface{}{
			"currentPosition": "Analyst",
		},
		"education": map[string]interface{}{
			"languages":      []interface{}{"English", "French"},
			"languageLevels": map[string]interface{}{"French": "A2"},
		},
		"funding": map[string]interface{}{
			"fundingSource": "self",
		},
		"consent": true,
	}

	c, err := MapPayload(payload, FormatEnglishNested)
	require.NoError(t, err)

	assert.Equal(t, "Jane", c.FirstName)
	assert.Equal(t, "jane@example.com", c.Email)
	assert.Equal(t, "Analyst", c.CurrentPosition)
	assert.Equal(t, []string{"English", "French"}, c.Languages)
	assert.Equal(t, map[string]string{"French": "A2"}, c.LanguageLevels)
	assert.Equal(t, []string{"self"}, c.FundingSource)
	assert.True(t, c.Consent)
}

func TestMapPayload_EnglishNested_MissingSections(t *testing.T) {
	// Missing sections default every contained field, never fail.
	payload := map[string]interface{}{
		"generalInfo": map[string]interface{}{"firstName": "Jane"},
	}

	c, err := MapPayload(payload, FormatEnglishNested)
	require.NoError(t, err)

	assert.Equal(t, "Jane", c.FirstName)
	assert.Equal(t, "", c.CurrentPosition)
	assert.Equal(t, []string{}, c.Languages)
	assert.Equal(t, []string{}, c.FundingSource)
	assert.Equal(t, map[string]string{}, c.LanguageLevels)
	assert.False(t, c.Consent)
	assert.Nil(t, c.ContactEmail)
}

func TestMapPayload_UnknownFormat(t *testing.T) {
	_, err := MapPayload(map[string]interface{}{}, Format("bogus"))
	assert.ErrorIs(t, err, ErrFormatNotRecognized)
}

// ==========================
// Coercion Tests
// ==========================

func TestMapPayload_ScalarToList(t *testing.T) {
	payload := englishFlatPayload()
	payload["languages"] = "English"
	payload["fundingSource"] = "self"

	c, err := MapPayload(payload, FormatEnglishFlat)
	require.NoError(t, err)

	assert.Equal(t, []string{"English"}, c.Languages)
	assert.Equal(t, []string{"self"}, c.FundingSource)
}

func TestMapPayload_ListsStayLists(t *testing.T) {
	for _, format := range []Format{FormatFrenchFlat, FormatEnglishFlat} {
		c, err := MapPayload(map[string]interface{}{"prenom": "x", "firstName": "x"}, format)
		require.NoError(t, err)

		assert.NotNil(t, c.Languages, "format %s", format)
		assert.NotNil(t, c.FundingSource, "format %s", format)
	}
}

func TestMapPayload_FieldListJoined(t *testing.T) {
	payload := englishFlatPayload()
	payload["field"] = []interface{}{"Statistics", "Mathematics"}

	c, err := MapPayload(payload, FormatEnglishFlat)
	require.NoError(t, err)

	assert.Equal(t, "Statistics, Mathematics", c.Field)
}

func TestMapPayload_LanguageLevelsRejectsNonObject(t *testing.T) {
	payload := englishFlatPayload()
	payload["languageLevels"] = "B2"

	c, err := MapPayload(payload, FormatEnglishFlat)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{}, c.LanguageLevels)
}

func TestMapPayload_ConsentTruthiness(t *testing.T) {
	cases := []struct {
		value    interface{}
		expected bool
	}{
		{true, true},
		{false, false},
		{nil, false},
		{"", false},
		{"yes", true},
		{float64(0), false},
		{float64(1), true},
	}

	for _, tc := range cases {
		payload := map[string]interface{}{"firstName": "x", "consent": tc.value}
		c, err := MapPayload(payload, FormatEnglishFlat)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, c.Consent, "consent=%v", tc.value)
	}
}

func TestMapPayload_SynonymOrderStable(t *testing.T) {
	// When canonical and French names are both present, the canonical one
	// wins on the French path because it is first in the accepted list.
	payload := map[string]interface{}{
		"firstName": "Canonical",
		"prenom":    "Jean",
	}

	c, err := MapPayload(payload, FormatFrenchFlat)
	require.NoError(t, err)

	assert.Equal(t, "Canonical", c.FirstName)
}

func TestMapPayload_Idempotent(t *testing.T) {
	payload := frenchPayload()

	first, err := MapPayload(payload, FormatFrenchFlat)
	require.NoError(t, err)
	second, err := MapPayload(payload, FormatFrenchFlat)
	require.NoError(t, err)

	// Equal on every field except the timestamp placeholder.
	first.SubmissionDate = second.SubmissionDate
	assert.Equal(t, first, second)
}

// ==========================
// Date Normalization Tests
// ==========================

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		input    interface{}
		expected string
	}{
		{"1990-05-12", "1990-05-12"},
		{"12/05/1990", "1990-12-05"},
		{"1990-05-12T10:30:00Z", "1990-05-12"},
		{"1990-05-12 10:30:00", "1990-05-12"},
		{"not-a-date", "not-a-date"},
		{"", ""},
		{nil, ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, NormalizeDate(tc.input), "input=%v", tc.input)
	}
}

// ==========================
// Partial Update Tests
// ==========================

func TestApplyUpdate(t *testing.T) {
	c, err := MapPayload(englishFlatPayload(), FormatEnglishFlat)
	require.NoError(t, err)

	touched := ApplyUpdate(c, map[string]interface{}{
		"phoneNumber": "+447700900999",
		"languages":   "German",
	})

	assert.Equal(t, map[string]bool{"phoneNumber": true, "languages": true}, touched)
	assert.Equal(t, "+447700900999", c.PhoneNumber)
	assert.Equal(t, []string{"German"}, c.Languages)
	// Untouched fields keep their values.
	assert.Equal(t, "Jane", c.FirstName)
}

func TestApplyUpdate_IgnoresUnknownAndFrenchKeys(t *testing.T) {
	c, err := MapPayload(englishFlatPayload(), FormatEnglishFlat)
	require.NoError(t, err)

	touched := ApplyUpdate(c, map[string]interface{}{
		"prenom":  "Jean",
		"unknown": "x",
	})

	assert.Empty(t, touched)
	assert.Equal(t, "Jane", c.FirstName)
}
