package email

const (
	subjectConsultationFmt = "Scheme Saarthi: consultation booked for %s"
	subjectLeadAlertFmt    = "High priority inquiry: %s (score %d)"
)
