package eligibility

import "testing"

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

type scheme struct {
	id     string
	active bool
	rule   Rule
}

func (s scheme) EligibilityRule() Rule { return s.rule }
func (s scheme) IsActive() bool        { return s.active }

func farmerProfile() Profile {
	return ProfileForAge(Profile{
		Gender:        "Female",
		AnnualIncome:  floatPtr(80000),
		CasteCategory: "General",
		Occupation:    "farmer",
		Location:      "Rajasthan",
	}, 30)
}

func farmerRule() Rule {
	return Rule{
		MinAge:        intPtr(18),
		Gender:        WildcardAll,
		IncomeLimit:   floatPtr(100000),
		CasteCategory: []string{WildcardAll},
		Occupation:    []string{"farmer"},
		Location:      []string{WildcardAllStates},
	}
}

func TestMatchesFarmerScenario(t *testing.T) {
	if !Matches(farmerProfile(), farmerRule()) {
		t.Fatal("expected farmer profile to be eligible")
	}
}

func TestMatchesRejectsIncomeAboveLimit(t *testing.T) {
	rule := farmerRule()
	rule.IncomeLimit = floatPtr(50000)
	if Matches(farmerProfile(), rule) {
		t.Fatal("expected income above limit to be rejected")
	}
}

func TestMatchesCriteria(t *testing.T) {
	cases := []struct {
		name    string
		profile Profile
		rule    Rule
		want    bool
	}{
		{"below age floor", ProfileForAge(Profile{}, 17), Rule{MinAge: intPtr(18)}, false},
		{"at age floor", ProfileForAge(Profile{}, 18), Rule{MinAge: intPtr(18)}, true},
		{"above age ceiling", ProfileForAge(Profile{}, 61), Rule{MaxAge: intPtr(60)}, false},
		{"at age ceiling", ProfileForAge(Profile{}, 60), Rule{MaxAge: intPtr(60)}, true},
		{"only floor supplied", Profile{MinAge: intPtr(20)}, Rule{MinAge: intPtr(18), MaxAge: intPtr(19)}, true},
		{"gender mismatch", Profile{Gender: "Male"}, Rule{Gender: "Female"}, false},
		{"gender case sensitive", Profile{Gender: "female"}, Rule{Gender: "Female"}, false},
		{"gender wildcard", Profile{Gender: "Other"}, Rule{Gender: WildcardAll}, true},
		{"gender unset on profile", Profile{}, Rule{Gender: "Female"}, true},
		{"income at limit", Profile{AnnualIncome: floatPtr(250000)}, Rule{IncomeLimit: floatPtr(250000)}, true},
		{"caste not listed", Profile{CasteCategory: "General"}, Rule{CasteCategory: []string{"SC", "ST"}}, false},
		{"caste listed", Profile{CasteCategory: "ST"}, Rule{CasteCategory: []string{"SC", "ST"}}, true},
		{"caste wildcard in list", Profile{CasteCategory: "OBC"}, Rule{CasteCategory: []string{"SC", WildcardAll}}, true},
		{"occupation not listed", Profile{Occupation: "student"}, Rule{Occupation: []string{"farmer"}}, false},
		{"occupation wildcard", Profile{Occupation: "student"}, Rule{Occupation: []string{WildcardAll}}, true},
		{"location substring of entry", Profile{Location: "Rajasthan"}, Rule{Location: []string{"Rajasthan - Jaipur"}}, true},
		{"location entry shorter than profile", Profile{Location: "Rajasthan - Jaipur"}, Rule{Location: []string{"Rajasthan"}}, false},
		{"location not listed", Profile{Location: "Kerala"}, Rule{Location: []string{"Bihar", "Odisha"}}, false},
		{"location wildcard", Profile{Location: "Kerala"}, Rule{Location: []string{"Bihar", WildcardAllStates}}, true},
		{"plain All is not a location wildcard", Profile{Location: "Kerala"}, Rule{Location: []string{WildcardAll}}, false},
		{"inverted age bounds applied literally", ProfileForAge(Profile{}, 30), Rule{MinAge: intPtr(40), MaxAge: intPtr(20)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Matches(tc.profile, tc.rule); got != tc.want {
				t.Fatalf("Matches() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestUnconstrainedRuleMatchesEveryProfile(t *testing.T) {
	open := []Rule{
		{},
		{Gender: WildcardAll, CasteCategory: []string{WildcardAll}, Occupation: []string{WildcardAll}, Location: []string{WildcardAllStates}},
	}
	profiles := []Profile{
		{},
		farmerProfile(),
		ProfileForAge(Profile{Gender: "Other", AnnualIncome: floatPtr(9e9), CasteCategory: "ST", Occupation: "unemployed", Location: "Ladakh"}, 99),
	}

	for i, rule := range open {
		for j, profile := range profiles {
			if !Matches(profile, rule) {
				t.Fatalf("rule %d rejected profile %d", i, j)
			}
		}
	}
}

func TestEmptyProfileIsNeverOverFiltered(t *testing.T) {
	rule := Rule{
		MinAge:        intPtr(60),
		MaxAge:        intPtr(80),
		Gender:        "Female",
		IncomeLimit:   floatPtr(1),
		CasteCategory: []string{"SC"},
		Occupation:    []string{"weaver"},
		Location:      []string{"Assam"},
	}
	if !Matches(Profile{}, rule) {
		t.Fatal("expected an empty profile to pass every criterion")
	}
}

func TestNarrowingRuleOnlyRemovesSchemes(t *testing.T) {
	profiles := []Profile{
		farmerProfile(),
		{},
		ProfileForAge(Profile{Gender: "Male", AnnualIncome: floatPtr(300000)}, 45),
	}
	narrowings := []func(Rule) Rule{
		func(r Rule) Rule { r.IncomeLimit = floatPtr(60000); return r },
		func(r Rule) Rule { r.MinAge = intPtr(35); return r },
		func(r Rule) Rule { r.MaxAge = intPtr(25); return r },
		func(r Rule) Rule { r.Gender = "Male"; return r },
		func(r Rule) Rule { r.CasteCategory = []string{"SC"}; return r },
		func(r Rule) Rule { r.Location = []string{"Bihar"}; return r },
	}

	for _, p := range profiles {
		base := Matches(p, farmerRule())
		for i, narrow := range narrowings {
			if !base && Matches(p, narrow(farmerRule())) {
				t.Fatalf("narrowing %d made an ineligible profile eligible", i)
			}
		}
	}
}

func TestFilterEligibleSkipsInactiveAndKeepsOrder(t *testing.T) {
	catalog := []scheme{
		{id: "pm-kisan", active: true, rule: farmerRule()},
		{id: "retired", active: false, rule: Rule{}},
		{id: "women-only", active: true, rule: Rule{Gender: "Female"}},
		{id: "sc-only", active: true, rule: Rule{CasteCategory: []string{"SC"}}},
		{id: "universal", active: true, rule: Rule{}},
	}

	got := FilterEligible(farmerProfile(), catalog)
	want := []string{"pm-kisan", "women-only", "universal"}
	if len(got) != len(want) {
		t.Fatalf("expected %d schemes, got %d", len(want), len(got))
	}
	for i, s := range got {
		if s.id != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], s.id)
		}
	}
}

func TestNormalizers(t *testing.T) {
	if got := NormalizeGender(" female "); got != "Female" {
		t.Fatalf("NormalizeGender = %q", got)
	}
	if got := NormalizeCasteCategory("obc"); got != "OBC" {
		t.Fatalf("NormalizeCasteCategory = %q", got)
	}
	if got := NormalizeCasteCategory("not specified"); got != "Not Specified" {
		t.Fatalf("NormalizeCasteCategory = %q", got)
	}
	if got := NormalizeOccupation("Farmer"); got != "farmer" {
		t.Fatalf("NormalizeOccupation = %q", got)
	}
}
