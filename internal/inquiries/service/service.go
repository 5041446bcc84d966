package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"saarthi_backend/internal/events"
	"saarthi_backend/internal/inquiries/repository"
	"saarthi_backend/internal/inquiries/transport"
	"saarthi_backend/internal/qualification"
	"saarthi_backend/platform/logger"
	"saarthi_backend/platform/phone"
	"saarthi_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	defaultSource = "manual"

	// MaxQueueSize bounds the outbound follow-up queue.
	MaxQueueSize = 50
	// MaxRequalifyBatch bounds one requalify-open run.
	MaxRequalifyBatch = 1000
)

// Qualifier scores an inquiry. Implemented by *qualification.Engine.
type Qualifier interface {
	Qualify(ctx context.Context, inq qualification.Inquiry) (qualification.Result, error)
}

// RequalifyEnqueuer schedules background re-qualification of one inquiry.
type RequalifyEnqueuer interface {
	EnqueueRequalification(ctx context.Context, inquiryID uuid.UUID) error
}

// Service provides business logic for scheme inquiries.
type Service struct {
	repo      repository.Repository
	qualifier Qualifier
	bus       events.Bus
	queue     RequalifyEnqueuer
	region    string
	log       *logger.Logger
	now       func() time.Time
}

// New creates a new inquiries service.
func New(repo repository.Repository, qualifier Qualifier, bus events.Bus, region string, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		qualifier: qualifier,
		bus:       bus,
		region:    region,
		log:       log,
		now:       time.Now,
	}
}

// SetRequalifyEnqueuer enables background re-qualification for RequalifyOpen.
// Without it the batch runs inline.
func (s *Service) SetRequalifyEnqueuer(q RequalifyEnqueuer) {
	s.queue = q
}

// Create normalises an intake, qualifies it and stores the result.
func (s *Service) Create(ctx context.Context, req transport.CreateInquiryRequest) (transport.CreateInquiryResponse, error) {
	source := req.Source
	if source == "" {
		source = defaultSource
	}

	inq := repository.Inquiry{
		Phone:          phone.NormalizeE164Region(req.Phone, s.region),
		CitizenName:    sanitize.Text(req.CitizenName),
		Email:          trimmed(req.Email),
		Organization:   sanitize.TextPtr(req.Organization),
		SchemeInterest: sanitize.TextPtr(req.SchemeInterest),
		BudgetRange:    sanitize.TextPtr(req.BudgetRange),
		LeadType:       lowered(req.LeadType),
		Source:         source,
		Status:         repository.StatusOpen,
		AssignedTo:     sanitize.TextPtr(req.AssignedTo),
		Notes:          sanitize.Text(req.Notes),
		FollowUpDate:   req.FollowUpDate,
	}

	result, err := s.qualifier.Qualify(ctx, ScoringInput(inq))
	if err != nil {
		return transport.CreateInquiryResponse{}, err
	}
	q := toQualification(result)
	inq.CitizenID = q.CitizenID
	inq.LeadScore = q.LeadScore
	inq.ICPMatchScore = q.ICPMatchScore
	inq.QualificationStatus = q.QualificationStatus
	inq.ScoreVersion = q.ScoreVersion
	inq.EngagementScore = q.EngagementScore
	inq.PastBenefitCount = q.PastBenefitCount
	inq.TotalBenefit = q.TotalBenefit
	inq.LastInteractionAt = q.LastInteractionAt
	inq.QualifiedAt = &q.QualifiedAt

	saved, err := s.repo.Create(ctx, inq)
	if err != nil {
		return transport.CreateInquiryResponse{}, err
	}

	s.log.Info("inquiry created", "inquiryId", saved.ID, "source", saved.Source)
	s.publishQualified(ctx, saved, "")

	return transport.CreateInquiryResponse{
		Inquiry: toResponse(saved),
		Qualification: transport.QualificationSummary{
			LeadScore:           saved.LeadScore,
			ICPMatchScore:       saved.ICPMatchScore,
			QualificationStatus: saved.QualificationStatus,
		},
		Factors: result.Factors,
	}, nil
}

// Requalify re-scores a stored inquiry against the current history.
func (s *Service) Requalify(ctx context.Context, id uuid.UUID) (transport.InquiryResponse, error) {
	inq, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.InquiryResponse{}, err
	}
	updated, err := s.requalify(ctx, inq)
	if err != nil {
		return transport.InquiryResponse{}, err
	}
	return toResponse(updated), nil
}

// RequalifyByPhone re-scores every open or contacted inquiry of a phone and
// returns how many were updated. Failures do not stop the remaining ones.
func (s *Service) RequalifyByPhone(ctx context.Context, rawPhone string) (int, error) {
	items, err := s.repo.ListActiveByPhone(ctx, phone.NormalizeE164Region(rawPhone, s.region))
	if err != nil {
		return 0, err
	}

	var errs []error
	updated := 0
	for _, inq := range items {
		if _, err := s.requalify(ctx, inq); err != nil {
			errs = append(errs, err)
			continue
		}
		updated++
	}
	return updated, errors.Join(errs...)
}

// RequalifyOpen schedules re-qualification of the active inquiries, through
// the background queue when one is configured.
func (s *Service) RequalifyOpen(ctx context.Context) (transport.RequalifyOpenResponse, error) {
	ids, err := s.repo.ListActiveIDs(ctx, MaxRequalifyBatch)
	if err != nil {
		return transport.RequalifyOpenResponse{}, err
	}

	if s.queue == nil {
		var errs []error
		done := 0
		for _, id := range ids {
			if _, err := s.Requalify(ctx, id); err != nil {
				errs = append(errs, err)
				continue
			}
			done++
		}
		return transport.RequalifyOpenResponse{Enqueued: done, Inline: true}, errors.Join(errs...)
	}

	enqueued := 0
	for _, id := range ids {
		if err := s.queue.EnqueueRequalification(ctx, id); err != nil {
			return transport.RequalifyOpenResponse{Enqueued: enqueued}, err
		}
		enqueued++
	}
	s.log.Info("requalification enqueued", "count", enqueued)
	return transport.RequalifyOpenResponse{Enqueued: enqueued}, nil
}

// ActiveIDs returns the IDs of open and contacted inquiries, stalest first.
func (s *Service) ActiveIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	if limit < 1 || limit > MaxRequalifyBatch {
		limit = MaxRequalifyBatch
	}
	return s.repo.ListActiveIDs(ctx, limit)
}

// Update applies a partial update and re-qualifies the inquiry. The edited
// fields are scored before anything is written, so a failed qualification
// leaves the stored row untouched. An empty optional field clears it.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateInquiryRequest) (transport.InquiryResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.InquiryResponse{}, err
	}

	params := repository.UpdateParams{
		CitizenName:    sanitize.TextPtr(req.CitizenName),
		Email:          clearableTrimmed(req.Email),
		Organization:   clearableText(req.Organization),
		SchemeInterest: clearableText(req.SchemeInterest),
		BudgetRange:    clearableText(req.BudgetRange),
		LeadType:       clearableLowered(req.LeadType),
		Source:         req.Source,
		Status:         req.Status,
		AssignedTo:     clearableText(req.AssignedTo),
		Notes:          clearableText(req.Notes),
		FollowUpDate:   req.FollowUpDate,
	}

	result, err := s.qualifier.Qualify(ctx, ScoringInput(params.Apply(current)))
	if err != nil {
		return transport.InquiryResponse{}, err
	}

	updated, previous, err := s.repo.Update(ctx, id, params, toQualification(result))
	if err != nil {
		return transport.InquiryResponse{}, err
	}
	s.publishQualified(ctx, updated, previous)
	return toResponse(updated), nil
}

// GetByID loads an inquiry.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.InquiryResponse, error) {
	inq, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.InquiryResponse{}, err
	}
	return toResponse(inq), nil
}

// List returns a page of inquiries.
func (s *Service) List(ctx context.Context, req transport.ListInquiriesRequest) (transport.InquiryListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	items, total, err := s.repo.List(ctx, repository.ListParams{
		Status:              req.Status,
		QualificationStatus: req.QualificationStatus,
		Offset:              (page - 1) * pageSize,
		Limit:               pageSize,
	})
	if err != nil {
		return transport.InquiryListResponse{}, err
	}
	return transport.InquiryListResponse{Items: toResponses(items), Total: total, Page: page, PageSize: pageSize}, nil
}

// ListByPhone returns all inquiries of a phone.
func (s *Service) ListByPhone(ctx context.Context, rawPhone string) ([]transport.InquiryResponse, error) {
	items, err := s.repo.ListByPhone(ctx, phone.NormalizeE164Region(rawPhone, s.region))
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

// Delete removes an inquiry.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("inquiry deleted", "inquiryId", id)
	return nil
}

// HighPriorityQueue returns the outbound work queue, at most MaxQueueSize long.
func (s *Service) HighPriorityQueue(ctx context.Context, limit int) (transport.QueueResponse, error) {
	if limit < 1 || limit > MaxQueueSize {
		limit = MaxQueueSize
	}
	items, err := s.repo.HighPriorityQueue(ctx, limit)
	if err != nil {
		return transport.QueueResponse{}, err
	}
	return transport.QueueResponse{Items: toResponses(items), Count: len(items)}, nil
}

// RecordFollowUp stores a call outcome and moves the inquiry accordingly.
// operator is the caller's user ID; uuid.Nil records an anonymous call.
func (s *Service) RecordFollowUp(ctx context.Context, id uuid.UUID, operator uuid.UUID, req transport.FollowUpRequest) (transport.InquiryResponse, error) {
	var calledBy *string
	if operator != uuid.Nil {
		calledBy = ptr(operator.String())
	}

	status, qualificationStatus := FollowUpTransition(req.Outcome)
	inq, err := s.repo.RecordFollowUp(ctx, id, repository.FollowUp{
		CallOutcome:         req.Outcome,
		Status:              status,
		QualificationStatus: qualificationStatus,
		Notes:               sanitize.TextPtr(req.Notes),
		FollowUpDate:        req.FollowUpDate,
		CalledAt:            s.now(),
		CalledBy:            calledBy,
	})
	if err != nil {
		return transport.InquiryResponse{}, err
	}

	s.log.Info("follow-up recorded", "inquiryId", id, "outcome", req.Outcome, "status", inq.Status, "operator", operator)
	return toResponse(inq), nil
}

// Stats summarises the pipeline.
func (s *Service) Stats(ctx context.Context) (transport.StatsResponse, error) {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		return transport.StatsResponse{}, err
	}

	rate := 0.0
	if st.Total > 0 {
		rate = math.Round(float64(st.Converted)/float64(st.Total)*10000) / 100
	}
	return transport.StatsResponse{
		Total:            st.Total,
		Qualified:        st.Qualified,
		HighPriority:     st.HighPriority,
		Open:             st.Open,
		Contacted:        st.Contacted,
		Converted:        st.Converted,
		AvgLeadScore:     int(math.Round(st.AvgLeadScore)),
		AvgICPMatchScore: int(math.Round(st.AvgICPMatchScore)),
		ConversionRate:   rate,
	}, nil
}

// FollowUpTransition maps a call outcome to the inquiry status and
// qualification label it implies. Nil keeps the stored value.
func FollowUpTransition(outcome string) (status, qualificationStatus *string) {
	switch outcome {
	case "interested":
		return ptr(repository.StatusQualified), ptr(string(qualification.StatusQualified))
	case "not_interested":
		return ptr(repository.StatusClosed), ptr(string(qualification.StatusDisqualified))
	case "answered":
		return ptr(repository.StatusContacted), nil
	case "application_started":
		return ptr(repository.StatusConverted), ptr(string(qualification.StatusQualified))
	default:
		return nil, nil
	}
}

// ScoringInput maps a stored inquiry to the engine input.
func ScoringInput(inq repository.Inquiry) qualification.Inquiry {
	return qualification.Inquiry{
		Phone:          inq.Phone,
		Email:          deref(inq.Email),
		Organization:   deref(inq.Organization),
		SchemeInterest: deref(inq.SchemeInterest),
		BudgetRange:    deref(inq.BudgetRange),
		LeadType:       deref(inq.LeadType),
		Source:         inq.Source,
	}
}

func (s *Service) requalify(ctx context.Context, inq repository.Inquiry) (repository.Inquiry, error) {
	result, err := s.qualifier.Qualify(ctx, ScoringInput(inq))
	if err != nil {
		return repository.Inquiry{}, err
	}

	updated, previous, err := s.repo.ApplyQualification(ctx, inq.ID, toQualification(result))
	if err != nil {
		return repository.Inquiry{}, err
	}
	s.publishQualified(ctx, updated, previous)
	return updated, nil
}

func (s *Service) publishQualified(ctx context.Context, inq repository.Inquiry, previous string) {
	s.bus.Publish(ctx, events.InquiryQualified{
		BaseEvent:           events.NewBaseEvent(),
		InquiryID:           inq.ID,
		Phone:               inq.Phone,
		CitizenName:         inq.CitizenName,
		SchemeInterest:      deref(inq.SchemeInterest),
		LeadScore:           inq.LeadScore,
		ICPMatchScore:       inq.ICPMatchScore,
		QualificationStatus: inq.QualificationStatus,
		PreviousStatus:      previous,
	})
}

func toQualification(r qualification.Result) repository.Qualification {
	q := repository.Qualification{
		LeadScore:           r.LeadScore,
		ICPMatchScore:       r.ICPMatchScore,
		QualificationStatus: string(r.Status),
		ScoreVersion:        r.Version,
		QualifiedAt:         r.QualifiedAt,
	}
	if h := r.History; h != nil {
		id := h.CitizenID
		q.CitizenID = &id
		q.EngagementScore = h.EngagementScore
		q.PastBenefitCount = h.PastBenefitCount
		q.TotalBenefit = h.TotalBenefit
		q.LastInteractionAt = h.LastInteractionAt
	}
	return q
}

func toResponse(i repository.Inquiry) transport.InquiryResponse {
	return transport.InquiryResponse{
		ID:                  i.ID,
		Phone:               i.Phone,
		CitizenName:         i.CitizenName,
		Email:               i.Email,
		Organization:        i.Organization,
		SchemeInterest:      i.SchemeInterest,
		BudgetRange:         i.BudgetRange,
		LeadType:            i.LeadType,
		Source:              i.Source,
		CitizenID:           i.CitizenID,
		LeadScore:           i.LeadScore,
		ICPMatchScore:       i.ICPMatchScore,
		QualificationStatus: i.QualificationStatus,
		ScoreVersion:        i.ScoreVersion,
		EngagementScore:     i.EngagementScore,
		PastBenefitCount:    i.PastBenefitCount,
		TotalBenefit:        i.TotalBenefit,
		LastInteractionAt:   i.LastInteractionAt,
		QualifiedAt:         i.QualifiedAt,
		Status:              i.Status,
		CallOutcome:         i.CallOutcome,
		CallCount:           i.CallCount,
		LastCallAt:          i.LastCallAt,
		FollowUpDate:        i.FollowUpDate,
		AssignedTo:          i.AssignedTo,
		Notes:               i.Notes,
		CreatedAt:           i.CreatedAt,
		UpdatedAt:           i.UpdatedAt,
	}
}

func toResponses(items []repository.Inquiry) []transport.InquiryResponse {
	out := make([]transport.InquiryResponse, 0, len(items))
	for _, i := range items {
		out = append(out, toResponse(i))
	}
	return out
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func lowered(v *string) *string {
	t := trimmed(v)
	if t == nil {
		return nil
	}
	l := strings.ToLower(*t)
	return &l
}

// clearableText sanitizes an optional update field, keeping an explicit
// empty value so the repository clears the column.
func clearableText(v *string) *string {
	if v == nil {
		return nil
	}
	return ptr(sanitize.Text(*v))
}

func clearableTrimmed(v *string) *string {
	if v == nil {
		return nil
	}
	return ptr(strings.TrimSpace(*v))
}

func clearableLowered(v *string) *string {
	if v == nil {
		return nil
	}
	return ptr(strings.ToLower(strings.TrimSpace(*v)))
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func ptr(v string) *string { return &v }
