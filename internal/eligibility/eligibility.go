// Package eligibility decides which welfare schemes a citizen profile
// satisfies. Every criterion is independent and all of them must pass; a
// criterion that is absent on either side never filters anything out.
package eligibility

import "strings"

// Wildcard values that disable a criterion on the scheme side.
const (
	WildcardAll       = "All"
	WildcardAllStates = "All States"
)

// Profile is the caller side of a match. Pointer and empty-string fields mean
// "not supplied". MinAge and MaxAge are the bounds the caller asks about; a
// citizen with a known age sets both (see ProfileForAge).
type Profile struct {
	MinAge        *int
	MaxAge        *int
	Gender        string
	AnnualIncome  *float64
	CasteCategory string
	Occupation    string
	Location      string
}

// ProfileForAge returns p with both age bounds set to age.
func ProfileForAge(p Profile, age int) Profile {
	p.MinAge = &age
	p.MaxAge = &age
	return p
}

// Rule is the eligibility block attached to a scheme. Rules are applied
// exactly as stored: a rule with MinAge above MaxAge matches no aged profile.
type Rule struct {
	MinAge        *int
	MaxAge        *int
	Gender        string
	IncomeLimit   *float64
	CasteCategory []string
	Occupation    []string
	Location      []string
}

// Candidate is anything carrying a rule and an active flag, typically a
// scheme row from the catalog.
type Candidate interface {
	EligibilityRule() Rule
	IsActive() bool
}

// Matches reports whether profile satisfies every criterion of rule.
func Matches(profile Profile, rule Rule) bool {
	return ageFloorOK(profile, rule) &&
		ageCeilingOK(profile, rule) &&
		genderOK(profile, rule) &&
		incomeOK(profile, rule) &&
		setOK(profile.CasteCategory, rule.CasteCategory) &&
		setOK(profile.Occupation, rule.Occupation) &&
		locationOK(profile, rule)
}

// FilterEligible returns the active candidates whose rule profile satisfies,
// keeping the input order. Callers pass the catalog sorted by popularity
// descending then name, so the result keeps that ranking.
func FilterEligible[T Candidate](profile Profile, candidates []T) []T {
	out := make([]T, 0, len(candidates))
	for _, c := range candidates {
		if !c.IsActive() {
			continue
		}
		if Matches(profile, c.EligibilityRule()) {
			out = append(out, c)
		}
	}
	return out
}

func ageFloorOK(p Profile, r Rule) bool {
	if p.MinAge == nil || r.MinAge == nil {
		return true
	}
	return *p.MinAge >= *r.MinAge
}

func ageCeilingOK(p Profile, r Rule) bool {
	if p.MaxAge == nil || r.MaxAge == nil {
		return true
	}
	return *p.MaxAge <= *r.MaxAge
}

// Gender comparison is exact; inputs are normalised at the API boundary.
func genderOK(p Profile, r Rule) bool {
	if p.Gender == "" || r.Gender == "" || r.Gender == WildcardAll {
		return true
	}
	return r.Gender == p.Gender
}

func incomeOK(p Profile, r Rule) bool {
	if p.AnnualIncome == nil || r.IncomeLimit == nil {
		return true
	}
	return *p.AnnualIncome <= *r.IncomeLimit
}

func setOK(value string, accepted []string) bool {
	if value == "" || len(accepted) == 0 || contains(accepted, WildcardAll) {
		return true
	}
	return contains(accepted, value)
}

// A scheme location entry matches when it contains the profile location, so
// "Rajasthan" matches the entry "Rajasthan - Jaipur District".
func locationOK(p Profile, r Rule) bool {
	if p.Location == "" || len(r.Location) == 0 || contains(r.Location, WildcardAllStates) {
		return true
	}
	for _, entry := range r.Location {
		if strings.Contains(entry, p.Location) {
			return true
		}
	}
	return false
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
