package qualification

import (
	"math"
	"time"
)

// Status is the qualification label used to order outbound follow-up.
type Status string

const (
	StatusUnqualified  Status = "unqualified"
	StatusQualified    Status = "qualified"
	StatusHighPriority Status = "high_priority"
	StatusDisqualified Status = "disqualified"
)

// Lead types and sources that carry a bonus.
const (
	LeadTypeInboundInquiry = "inbound_inquiry"
	LeadTypeFestivalOffer  = "festival_offer"
	LeadTypeNewPurchase    = "new_purchase"

	SourceReferral = "referral"
	SourceWebsite  = "website"
	SourcePhone    = "phone"
)

const (
	newLeadBaseScore = 35
	maxScore         = 100
)

// Inquiry is the scoring input taken from an intake record.
type Inquiry struct {
	Phone          string
	Email          string
	Organization   string
	SchemeInterest string
	BudgetRange    string
	LeadType       string
	Source         string
}

// Breakdown is a lead score with the points each factor contributed.
type Breakdown struct {
	Score   int
	Factors map[string]int
}

func (b *Breakdown) add(factor string, points int) {
	if points == 0 {
		return
	}
	b.Score += points
	b.Factors[factor] += points
}

// ComputeLeadScore returns the 0-100 lead value score.
func ComputeLeadScore(c Criteria, inq Inquiry, h *EngagementHistory, now time.Time) int {
	return LeadScoreBreakdown(c, inq, h, now).Score
}

// LeadScoreBreakdown scores a lead and records each contribution.
// A nil history means a new lead.
func LeadScoreBreakdown(c Criteria, inq Inquiry, h *EngagementHistory, now time.Time) Breakdown {
	b := Breakdown{Factors: make(map[string]int)}

	if h != nil {
		b.add("past_benefits", min(h.PastBenefitCount*10, 30))
		switch {
		case h.TotalBenefit >= c.PreferredTotalBenefit:
			b.add("total_benefit", 25)
		case h.TotalBenefit >= c.MinTotalBenefit:
			b.add("total_benefit", 15)
		}
		if h.HasActiveBenefit {
			b.add("active_benefit", 10)
		}
		if h.HasRecurringEnrollment {
			b.add("recurring_enrollment", 5)
		}
		b.add("recency", recencyPoints(h.LastInteractionAt, now))
		b.add("engagement", h.EngagementScore*15/100)
	} else {
		b.add("new_lead_base", newLeadBaseScore)
		switch inq.LeadType {
		case LeadTypeInboundInquiry, LeadTypeNewPurchase:
			b.add("lead_type", 10)
		case LeadTypeFestivalOffer:
			b.add("lead_type", 5)
		}
	}

	switch c.Tier(inq.SchemeInterest) {
	case TierHigh:
		b.add("interest", 20)
	case TierMedium:
		b.add("interest", 12)
	case TierAny:
		b.add("interest", 8)
	}
	if inq.BudgetRange != "" {
		b.add("budget_range", 5)
	}
	if inq.Email != "" {
		b.add("email", 3)
	}
	if inq.Organization != "" {
		b.add("organization", 7)
	}
	switch inq.Source {
	case SourceReferral:
		b.add("source", 10)
	case SourceWebsite:
		b.add("source", 8)
	case SourcePhone:
		b.add("source", 5)
	}

	b.Score = clamp(b.Score)
	return b
}

// ComputeICPMatchScore returns round(met / total * 100) over the ideal
// citizen profile criteria. Partial matches earn half a point.
func ComputeICPMatchScore(c Criteria, inq Inquiry, h *EngagementHistory, now time.Time) int {
	var met, total float64
	tier := c.Tier(inq.SchemeInterest)

	if h != nil {
		// Seven slots for six history checks, matching the stored scores.
		total = 7
		met += graded(float64(h.PastBenefitCount), float64(c.PreferredPastBenefits), float64(c.MinPastBenefits))
		met += graded(h.TotalBenefit, c.PreferredTotalBenefit, c.MinTotalBenefit)
		met += graded(float64(h.EngagementScore), float64(c.PreferredEngagement), float64(c.MinEngagement))
		if h.HasActiveBenefit {
			met++
		}
		if h.HasRecurringEnrollment {
			met++
		}
		if days, ok := daysSince(h.LastInteractionAt, now); ok && days <= c.RecencyWindowDays {
			met++
		}
	} else {
		total = 3
		switch tier {
		case TierHigh:
			met++
		case TierAny, TierMedium:
			met += 0.5
		}
		if inq.BudgetRange != "" {
			met++
		}
		switch {
		case inq.Email != "" && inq.Phone != "":
			met++
		case inq.Phone != "":
			met += 0.5
		}
	}

	if h != nil || !c.CountProductTierOnce {
		total++
		if tier == TierHigh {
			met++
		}
	}

	return clamp(int(math.Round(met / total * 100)))
}

// DeriveStatus applies the fixed decision table; the first matching row wins.
func DeriveStatus(leadScore, icpScore int) Status {
	switch {
	case leadScore >= 65 && icpScore >= 65:
		return StatusHighPriority
	case leadScore >= 45 && icpScore >= 40:
		return StatusQualified
	case leadScore < 25:
		return StatusDisqualified
	default:
		return StatusUnqualified
	}
}

func graded(value, preferred, minimum float64) float64 {
	switch {
	case value >= preferred:
		return 1
	case value >= minimum:
		return 0.5
	default:
		return 0
	}
}

// A missing last interaction is treated as infinitely old.
func recencyPoints(last *time.Time, now time.Time) int {
	days, ok := daysSince(last, now)
	switch {
	case !ok:
		return 0
	case days <= 30:
		return 15
	case days <= 90:
		return 10
	case days <= 180:
		return 5
	default:
		return 0
	}
}

func daysSince(last *time.Time, now time.Time) (int, bool) {
	if last == nil {
		return 0, false
	}
	return int(math.Floor(now.Sub(*last).Hours() / 24)), true
}

func clamp(score int) int {
	return max(0, min(score, maxScore))
}
