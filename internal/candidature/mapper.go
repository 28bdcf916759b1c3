// internal/candidature/mapper.go
package candidature

import (
	"fmt"
	"strings"
	"time"

	"candidature-api/internal/models"
)

// coercion selects how a looked-up raw value becomes a canonical field.
type coercion int

const (
	coerceText coercion = iota
	coerceDate
	coerceDomain // list joined with ", ", scalar kept as string
	coerceList   // scalar wrapped into a single-element list
	coerceLevels
	coerceOptionalEmail
	coerceConsent
)

// fieldSpec is one row of the mapping table: a canonical field, the
// ordered source keys accepted for it, and the coercion applied.
// sourceKeys lists the canonical name first, then the French synonyms;
// the French flat shape accepts the whole list, matched case-insensitively,
// while the English shapes accept only the canonical name, matched exactly.
// section names the container object for the nested shape, empty meaning
// top level.
type fieldSpec struct {
	name       string
	section    string
	sourceKeys []string
	coerce     coercion
	bind       func(*models.Candidature) interface{}
}

var mappingTable = []fieldSpec{
	{"firstName", "generalInfo", []string{"firstName", "prenom"}, coerceText,
		func(c *models.Candidature) interface{} { return &c.FirstName }},
	{"lastName", "generalInfo", []string{"lastName", "nom"}, coerceText,
		func(c *models.Candidature) interface{} { return &c.LastName }},
	{"nationality", "generalInfo", []string{"nationality", "nationalite"}, coerceText,
		func(c *models.Candidature) interface{} { return &c.Nationality }},
	{"gender", "generalInfo", []string{"gender", "sexe"}, coerceText,
		func(c *models.Candidature) interface{} { return &c.Gender }},
	{"dateOfBirth", "generalInfo", []string{"dateOfBirth", "dateNaissance", "date_naissance"}, coerceDate,
		func(c *models.Candidature) interface{} { return &c.DateOfBirth }},
	{"placeOfBirth", "generalInfo", []string{"placeOfBirth", "lieuNaissance", "lieu_naissance"}, coerceText,
		func(c *models.Candidature) interface{} { return &c.PlaceOfBirth }},
	{"phoneNumber", "generalInfo", []string{"phoneNumber", "telephone"}, coerceText,
		func(c *models.Candidature) interface{} { return &c.PhoneNumber }},
	{"email", "generalInfo", []string{"email", "contactEmail"}, coerceText,
		func(c *models.Candidature) interface{} { return &c.Email }},
	{"organization", "generalInfo", []string{"organization", "organisation"}, coerceText,
		func(c *models.Candidature) interface{} { return &c.Organization }},
	{"country", "generalInfo", []string{"country", "pays"}, coerceText,
		func(c *models.Candidature) interface{} { return &c.Country }},

	{"department", "professionalDetails", []string{"department", "departement"}, coerceText,
		func(c *models.Candidature) interface{} { return &c.Department }},
	{"currentPosition", "professionalDetails", []string{"currentPosition", "posteActuel", "poste_actuel"}, coerceText,
		func(c *models.Candidature) interface{} { return &c.CurrentPosition }},
	{"taskDescription", "professionalDetails", []string{"taskDescription", "descriptionTaches", "description_taches"}, coerceText,
		func(c *models.Candidature) interface{} { return &c.TaskDescription }},

	{"diploma", "education", []string{"diploma", "diplome"}, coerceText,
		func(c *models.Candidature) interface{} { return &c.Diploma }},
	{"institution", "education", []string{"institution", "institutionEtudes", "institution_etudes"}, coerceText,
		func(c *models.Candidature) interface{} { return &c.Institution }},
	{"field", "education", []string{"field", "domaine"}, coerceDomain,
		func(c *models.Candidature) interface{} { return &c.Field }},
	{"languages", "education", []string{"languages", "langues"}, coerceList,
		func(c *models.Candidature) interface{} { return &c.Languages }},
	{"languageLevels", "education", []string{"languageLevels", "niveaux"}, coerceLevels,
		func(c *models.Candidature) interface{} { return &c.LanguageLevels }},

	{"expectedResults", "additionalInfo", []string{"expectedResults", "resultatsAttendus", "resultats_attendus"}, coerceText,
		func(c *models.Candidature) interface{} { return &c.ExpectedResults }},
	{"otherInformation", "additionalInfo", []string{"otherInformation", "autresInfos", "autres_infos"}, coerceText,
		func(c *models.Candidature) interface{} { return &c.OtherInformation }},

	{"fundingSource", "funding", []string{"fundingSource", "mode", "mode_financement"}, coerceList,
		func(c *models.Candidature) interface{} { return &c.FundingSource }},
	{"institutionName", "funding", []string{"institutionName", "institutionFinancement", "institution_financement"}, coerceText,
		func(c *models.Candidature) interface{} { return &c.InstitutionName }},
	{"contactPerson", "funding", []string{"contactPerson", "contactFinancement", "contact_financement"}, coerceText,
		func(c *models.Candidature) interface{} { return &c.ContactPerson }},
	{"contactEmail", "funding", []string{"contactEmail", "emailContactFinancement", "email_contact_financement"}, coerceOptionalEmail,
		func(c *models.Candidature) interface{} { return &c.ContactEmail }},
	{"informationSource", "funding", []string{"informationSource", "source", "source_information"}, coerceText,
		func(c *models.Candidature) interface{} { return &c.InformationSource }},

	// consent lives at the top level in every shape, the nested one included
	{"consent", "", []string{"consent", "consentement"}, coerceConsent,
		func(c *models.Candidature) interface{} { return &c.Consent }},
}

// MapPayload builds an unvalidated canonical record from a raw payload of
// the given shape. Missing or mistyped optional values default, they never
// fail; the only error case is an unrecognized format.
func MapPayload(payload map[string]interface{}, format Format) (*models.Candidature, error) {
	c := newEmptyCandidature()

	switch format {
	case FormatFrenchFlat:
		for _, spec := range mappingTable {
			v, ok := lookupKey(payload, spec.sourceKeys, true)
			applyField(c, spec, v, ok)
		}
	case FormatEnglishNested:
		for _, spec := range mappingTable {
			source := payload
			if spec.section != "" {
				source = sectionObject(payload, spec.section)
			}
			v, ok := lookupKey(source, spec.sourceKeys[:1], false)
			applyField(c, spec, v, ok)
		}
	case FormatEnglishFlat:
		for _, spec := range mappingTable {
			v, ok := lookupKey(payload, spec.sourceKeys[:1], false)
			applyField(c, spec, v, ok)
		}
	default:
		return nil, ErrFormatNotRecognized
	}

	// Placeholder until the store stamps the real value on save.
	c.SubmissionDate = time.Now().UTC()
	return c, nil
}

// ApplyUpdate overlays a partial canonical-flat fragment onto an existing
// record. Only canonical key names are accepted; matched fields are
// coerced with the same rules as a full mapping. The returned set names
// the canonical fields that were present, so the caller can validate
// exactly those.
func ApplyUpdate(c *models.Candidature, fragment map[string]interface{}) map[string]bool {
	touched := make(map[string]bool)
	for _, spec := range mappingTable {
		v, ok := lookupKey(fragment, spec.sourceKeys[:1], false)
		if !ok {
			continue
		}
		applyField(c, spec, v, true)
		touched[spec.name] = true
	}
	return touched
}

func newEmptyCandidature() *models.Candidature {
	return &models.Candidature{
		Languages:      []string{},
		LanguageLevels: map[string]string{},
		FundingSource:  []string{},
	}
}

// sectionObject returns the named sub-object, or an empty one so a
// missing section never fails the mapping.
func sectionObject(payload map[string]interface{}, name string) map[string]interface{} {
	if sub, ok := payload[name].(map[string]interface{}); ok {
		return sub
	}
	return map[string]interface{}{}
}

// lookupKey retrieves the first value found under the accepted keys, in
// order. With caseInsensitive set, each key also matches any payload key
// that differs only in casing before the next synonym is tried.
func lookupKey(payload map[string]interface{}, keys []string, caseInsensitive bool) (interface{}, bool) {
	for _, key := range keys {
		if v, ok := payload[key]; ok && v != nil {
			return v, true
		}
		if !caseInsensitive {
			continue
		}
		lower := strings.ToLower(key)
		for k, v := range payload {
			if strings.ToLower(k) == lower && v != nil {
				return v, true
			}
		}
	}
	return nil, false
}

func applyField(c *models.Candidature, spec fieldSpec, v interface{}, ok bool) {
	switch spec.coerce {
	case coerceText:
		p := spec.bind(c).(*string)
		if ok {
			*p = asString(v)
		}
	case coerceDate:
		p := spec.bind(c).(*string)
		if ok {
			*p = NormalizeDate(v)
		}
	case coerceDomain:
		p := spec.bind(c).(*string)
		if !ok {
			return
		}
		if list, isList := v.([]interface{}); isList {
			*p = strings.Join(toStringSlice(list), ", ")
		} else {
			*p = asString(v)
		}
	case coerceList:
		p := spec.bind(c).(*[]string)
		if !ok {
			return
		}
		if list, isList := v.([]interface{}); isList {
			*p = toStringSlice(list)
		} else if isTruthy(v) {
			*p = []string{asString(v)}
		}
	case coerceLevels:
		p := spec.bind(c).(*map[string]string)
		obj, isObj := v.(map[string]interface{})
		if !ok || !isObj {
			return
		}
		levels := make(map[string]string, len(obj))
		for lang, level := range obj {
			levels[lang] = asString(level)
		}
		*p = levels
	case coerceOptionalEmail:
		p := spec.bind(c).(**string)
		if ok {
			s := asString(v)
			*p = &s
		}
	case coerceConsent:
		p := spec.bind(c).(*bool)
		*p = ok && isTruthy(v)
	}
}

// asString keeps strings as-is and renders scalars; objects and lists
// collapse to their default-formatted text, matching the loose typing of
// the payloads this endpoint historically received.
func asString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		// JSON numbers arrive as float64; render integers without a decimal point
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		return fmt.Sprint(val)
	}
}

func toStringSlice(list []interface{}) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, asString(item))
	}
	return out
}

// dateLayouts are tried in order when normalizing a birth date.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"2006/01/02",
}

// NormalizeDate renders a parseable date value as YYYY-MM-DD and keeps
// the raw text verbatim when parsing fails, so bad input is surfaced by
// validation instead of silently dropped.
func NormalizeDate(v interface{}) string {
	s := strings.TrimSpace(asString(v))
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}
