package eligibility

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var casteAliases = map[string]string{
	"sc":      "SC",
	"st":      "ST",
	"obc":     "OBC",
	"ews":     "EWS",
	"general": "General",
	"gen":     "General",
}

// NormalizeGender maps free-form input onto the stored enum
// (Male, Female, Other, All). Unknown values are title-cased.
func NormalizeGender(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	switch strings.ToLower(v) {
	case "m", "male":
		return "Male"
	case "f", "female":
		return "Female"
	case "all":
		return WildcardAll
	case "other":
		return "Other"
	}
	return titleCase(v)
}

// NormalizeCasteCategory maps common spellings onto the stored tags.
func NormalizeCasteCategory(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if tag, ok := casteAliases[strings.ToLower(v)]; ok {
		return tag
	}
	if strings.EqualFold(v, WildcardAll) {
		return WildcardAll
	}
	return titleCase(v)
}

// NormalizeOccupation lower-cases occupation tags (farmer, student, ...).
func NormalizeOccupation(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, WildcardAll) {
		return WildcardAll
	}
	return cases.Lower(language.English).String(v)
}

// Casers carry state, so each call gets its own.
func titleCase(v string) string {
	return cases.Title(language.English).String(v)
}
