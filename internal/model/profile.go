// Package model defines the core data types shared by the distribution engine.
package model

// Gender values accepted by the intake form.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Profile is a completed census questionnaire. It is handed to the engine
// once per session and never mutated afterwards.
type Profile struct {
	FullName             string `json:"fullName" yaml:"fullName"`
	HKID                 string `json:"hkid" yaml:"hkid"`
	Gender               string `json:"gender" yaml:"gender"`
	Age                  string `json:"age" yaml:"age"`
	Ethnicity            string `json:"ethnicity" yaml:"ethnicity"`
	Education            string `json:"education" yaml:"education"`
	Industry             string `json:"industry" yaml:"industry"`
	Occupation           string `json:"occupation" yaml:"occupation"`
	MigrationStatus      string `json:"migrationStatus" yaml:"migrationStatus"`
	MaritalStatus        string `json:"maritalStatus" yaml:"maritalStatus"`
	MortalityInHousehold bool   `json:"mortalityInHousehold" yaml:"mortalityInHousehold"`
	HousingType          string `json:"housingType" yaml:"housingType"`
	District             string `json:"district" yaml:"district"`
}

// Value returns the string form of the attribute named by key. Booleans
// render as "Yes" or "No". The second return is false for unknown keys.
func (p Profile) Value(key string) (string, bool) {
	switch key {
	case "fullName":
		return p.FullName, true
	case "hkid":
		return p.HKID, true
	case "gender":
		return p.Gender, true
	case "age":
		return p.Age, true
	case "ethnicity":
		return p.Ethnicity, true
	case "education":
		return p.Education, true
	case "industry":
		return p.Industry, true
	case "occupation":
		return p.Occupation, true
	case "migrationStatus":
		return p.MigrationStatus, true
	case "maritalStatus":
		return p.MaritalStatus, true
	case "mortalityInHousehold":
		if p.MortalityInHousehold {
			return "Yes", true
		}
		return "No", true
	case "housingType":
		return p.HousingType, true
	case "district":
		return p.District, true
	default:
		return "", false
	}
}

// SampleProfile returns the profile the intake form is pre-filled with.
func SampleProfile() Profile {
	return Profile{
		FullName:             "王明",
		HKID:                 "Z1234567",
		Gender:               GenderMale,
		Age:                  "65",
		Ethnicity:            "Chinese",
		Education:            "University",
		Industry:             "Retired",
		Occupation:           "Retired",
		MigrationStatus:      "Born in HK",
		MaritalStatus:        "Married",
		MortalityInHousehold: false,
		HousingType:          "Private Housing",
		District:             "Central and Western",
	}
}
