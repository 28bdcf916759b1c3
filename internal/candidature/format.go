// internal/candidature/format.go
package candidature

import "errors"

// Format identifies one of the payload shapes the intake endpoint accepts.
type Format string

const (
	// FormatFrenchFlat is a top-level payload using French field names.
	FormatFrenchFlat Format = "french-flat"
	// FormatEnglishNested groups English field names into section objects.
	FormatEnglishNested Format = "english-nested"
	// FormatEnglishFlat is a top-level payload using English field names.
	FormatEnglishFlat Format = "english-flat"
)

var ErrFormatNotRecognized = errors.New("payload format not recognized")

var (
	frenchFlatMarkers    = []string{"prenom", "nom", "date_naissance"}
	englishNestedMarkers = []string{"generalInfo", "professionalDetails", "education", "additionalInfo", "funding"}
	englishFlatMarkers   = []string{"firstName", "lastName", "email"}
)

// DetectFormat classifies a raw payload by truthy presence of marker keys.
// French markers are checked first so a French payload carrying an
// incidental English-looking key is still treated as French. Marker values
// are not validated here, only their presence.
func DetectFormat(payload map[string]interface{}) (Format, error) {
	if payload == nil {
		return "", ErrFormatNotRecognized
	}
	if hasAnyMarker(payload, frenchFlatMarkers) {
		return FormatFrenchFlat, nil
	}
	if hasAnyMarker(payload, englishNestedMarkers) {
		return FormatEnglishNested, nil
	}
	if hasAnyMarker(payload, englishFlatMarkers) {
		return FormatEnglishFlat, nil
	}
	return "", ErrFormatNotRecognized
}

func hasAnyMarker(payload map[string]interface{}, markers []string) bool {
	for _, key := range markers {
		if isTruthy(payload[key]) {
			return true
		}
	}
	return false
}

// isTruthy mirrors loose JSON truthiness: absent, nil, empty string,
// zero and false do not count as a marker hit.
func isTruthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case map[string]interface{}:
		return true
	case []interface{}:
		return true
	default:
		return true
	}
}
