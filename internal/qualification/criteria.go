package qualification

import (
	"slices"
	"strings"

	"saarthi_backend/platform/config"
)

// Criteria is the ideal-citizen-profile threshold table. Engines hold a deep
// copy (see Clone), so changing a Criteria after NewEngine has no effect.
type Criteria struct {
	MinPastBenefits       int
	PreferredPastBenefits int
	MinTotalBenefit       float64
	PreferredTotalBenefit float64
	MinEngagement         int
	PreferredEngagement   int
	RecencyWindowDays     int
	HighValueInterests    []string
	MediumValueInterests  []string

	// CountProductTierOnce drops the trailing high-value interest step for new
	// leads, whose branch already scores the interest tier. Off by default so
	// scores stay comparable with records qualified before the flag existed.
	CountProductTierOnce bool
}

// Clone returns a copy that shares no slices with c.
func (c Criteria) Clone() Criteria {
	c.HighValueInterests = slices.Clone(c.HighValueInterests)
	c.MediumValueInterests = slices.Clone(c.MediumValueInterests)
	return c
}

// DefaultCriteria returns the stock threshold table.
func DefaultCriteria() Criteria {
	return Criteria{
		MinPastBenefits:       1,
		PreferredPastBenefits: 3,
		MinTotalBenefit:       10000,
		PreferredTotalBenefit: 50000,
		MinEngagement:         30,
		PreferredEngagement:   70,
		RecencyWindowDays:     180,
		HighValueInterests:    []string{"Air Conditioner", "Refrigerator", "Washing Machine", "LED TV", "Home Theater"},
		MediumValueInterests:  []string{"Microwave", "Mixer Grinder", "Vacuum Cleaner", "Water Purifier"},
	}
}

// CriteriaFromConfig overlays deployment settings on DefaultCriteria.
// Empty catalogs and a non-positive window keep the defaults.
func CriteriaFromConfig(cfg config.QualificationConfig) Criteria {
	c := DefaultCriteria()
	if days := cfg.GetRecencyWindowDays(); days > 0 {
		c.RecencyWindowDays = days
	}
	if high := cfg.GetHighValueInterests(); len(high) > 0 {
		c.HighValueInterests = append([]string(nil), high...)
	}
	if medium := cfg.GetMediumValueInterests(); len(medium) > 0 {
		c.MediumValueInterests = append([]string(nil), medium...)
	}
	c.CountProductTierOnce = cfg.GetCountProductTierOnce()
	return c
}

// InterestTier classifies a scheme or product interest string.
type InterestTier int

const (
	TierNone InterestTier = iota
	TierAny
	TierMedium
	TierHigh
)

// Tier matches interest against the catalogs by case-insensitive substring.
// High-value wins over medium-value when both match.
func (c Criteria) Tier(interest string) InterestTier {
	if interest == "" {
		return TierNone
	}
	lowered := strings.ToLower(interest)
	if containsAny(lowered, c.HighValueInterests) {
		return TierHigh
	}
	if containsAny(lowered, c.MediumValueInterests) {
		return TierMedium
	}
	return TierAny
}

func containsAny(lowered string, catalog []string) bool {
	for _, entry := range catalog {
		if entry == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(entry)) {
			return true
		}
	}
	return false
}
