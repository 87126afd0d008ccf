package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Attribute selects which profile field is being visualized.
type Attribute struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// DashboardAttributes is the ordered set offered by the metric selector.
// The first entry is active when a session starts.
var DashboardAttributes = []Attribute{
	{Key: "age", Label: "Age"},
	{Key: "ethnicity", Label: "Ethnicity"},
	{Key: "industry", Label: "Industry"},
	{Key: "housingType", Label: "Housing"},
	{Key: "maritalStatus", Label: "Marital"},
}

// extendedKeys are profile fields that may be visualized by key even though
// the dashboard does not list them.
var extendedKeys = []string{"gender", "education", "occupation", "migrationStatus"}

// DefaultAttribute returns the attribute active on session start.
func DefaultAttribute() Attribute {
	return DashboardAttributes[0]
}

// LookupAttribute resolves a key to an Attribute. Dashboard keys keep their
// short labels; extended keys get a label humanized from the key.
func LookupAttribute(key string) (Attribute, bool) {
	for _, a := range DashboardAttributes {
		if a.Key == key {
			return a, true
		}
	}
	for _, k := range extendedKeys {
		if k == key {
			return Attribute{Key: key, Label: HumanizeKey(key)}, true
		}
	}
	return Attribute{}, false
}

// AllAttributes returns dashboard attributes followed by the extended set.
func AllAttributes() []Attribute {
	out := make([]Attribute, 0, len(DashboardAttributes)+len(extendedKeys))
	out = append(out, DashboardAttributes...)
	for _, k := range extendedKeys {
		out = append(out, Attribute{Key: k, Label: HumanizeKey(k)})
	}
	return out
}

// HumanizeKey turns a camelCase key into title-cased words:
// "migrationStatus" becomes "Migration Status".
func HumanizeKey(key string) string {
	var sb strings.Builder
	for i, r := range key {
		if i > 0 && unicode.IsUpper(r) {
			sb.WriteByte(' ')
		}
		sb.WriteRune(r)
	}
	return cases.Title(language.English, cases.NoLower).String(sb.String())
}
