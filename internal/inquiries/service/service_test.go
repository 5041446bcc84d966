package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"saarthi_backend/internal/events"
	"saarthi_backend/internal/inquiries/repository"
	"saarthi_backend/internal/inquiries/transport"
	"saarthi_backend/internal/qualification"
	"saarthi_backend/platform/apperr"
	"saarthi_backend/platform/logger"

	"github.com/google/uuid"
)

var fixedNow = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

type fakeHistory struct {
	history *qualification.EngagementHistory
	err     error
}

func (f fakeHistory) GetHistory(context.Context, string) (*qualification.EngagementHistory, error) {
	return f.history, f.err
}

type fakeRepo struct {
	repository.Repository
	created      *repository.Inquiry
	active       []repository.Inquiry
	applied      map[uuid.UUID]repository.Qualification
	failApplyFor uuid.UUID
	followUp     repository.FollowUp
	queueLimit   int
	stats        repository.Stats
	activeIDs    []uuid.UUID
	stored       map[uuid.UUID]repository.Inquiry
	previous     string
	updates      int
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Inquiry, error) {
	inq, ok := f.stored[id]
	if !ok {
		return repository.Inquiry{}, apperr.NotFound("inquiry not found")
	}
	return inq, nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, p repository.UpdateParams, q repository.Qualification) (repository.Inquiry, string, error) {
	current, ok := f.stored[id]
	if !ok {
		return repository.Inquiry{}, "", apperr.NotFound("inquiry not found")
	}
	f.updates++
	previous := current.QualificationStatus
	next := p.Apply(current)
	next.LeadScore = q.LeadScore
	next.ICPMatchScore = q.ICPMatchScore
	next.QualificationStatus = q.QualificationStatus
	f.stored[id] = next
	return next, previous, nil
}

func (f *fakeRepo) Create(_ context.Context, inq repository.Inquiry) (repository.Inquiry, error) {
	inq.ID = uuid.New()
	f.created = &inq
	return inq, nil
}

func (f *fakeRepo) ListActiveByPhone(context.Context, string) ([]repository.Inquiry, error) {
	return f.active, nil
}

func (f *fakeRepo) ListActiveIDs(context.Context, int) ([]uuid.UUID, error) {
	return f.activeIDs, nil
}

func (f *fakeRepo) ApplyQualification(_ context.Context, id uuid.UUID, q repository.Qualification) (repository.Inquiry, string, error) {
	if id == f.failApplyFor {
		return repository.Inquiry{}, "", errors.New("write failed")
	}
	if f.applied == nil {
		f.applied = map[uuid.UUID]repository.Qualification{}
	}
	f.applied[id] = q
	return repository.Inquiry{ID: id, LeadScore: q.LeadScore, QualificationStatus: q.QualificationStatus}, f.previous, nil
}

func (f *fakeRepo) RecordFollowUp(_ context.Context, id uuid.UUID, fu repository.FollowUp) (repository.Inquiry, error) {
	f.followUp = fu
	inq := repository.Inquiry{ID: id, Status: repository.StatusOpen}
	if fu.Status != nil {
		inq.Status = *fu.Status
	}
	return inq, nil
}

func (f *fakeRepo) HighPriorityQueue(_ context.Context, limit int) ([]repository.Inquiry, error) {
	f.queueLimit = limit
	return []repository.Inquiry{{ID: uuid.New()}}, nil
}

func (f *fakeRepo) Stats(context.Context) (repository.Stats, error) {
	return f.stats, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) { b.published = append(b.published, e) }
func (b *recordingBus) PublishSync(_ context.Context, e events.Event) error {
	b.published = append(b.published, e)
	return nil
}
func (b *recordingBus) Subscribe(string, events.Handler) {}

type recordingQueue struct {
	ids []uuid.UUID
}

func (q *recordingQueue) EnqueueRequalification(_ context.Context, id uuid.UUID) error {
	q.ids = append(q.ids, id)
	return nil
}

func newService(repo *fakeRepo, history fakeHistory, bus *recordingBus) *Service {
	engine := qualification.NewEngine(qualification.DefaultCriteria(), history, logger.Discard(),
		qualification.WithClock(func() time.Time { return fixedNow }))
	svc := New(repo, engine, bus, "IN", logger.Discard())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestCreateQualifiesAndPublishes(t *testing.T) {
	repo := &fakeRepo{}
	bus := &recordingBus{}
	svc := newService(repo, fakeHistory{}, bus)

	email := "  Ravi@Example.com "
	resp, err := svc.Create(context.Background(), transport.CreateInquiryRequest{
		Phone:       "09876543210",
		CitizenName: "Ravi Kumar",
		Email:       &email,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.created == nil {
		t.Fatal("expected inquiry to be stored")
	}
	if repo.created.Phone != "+919876543210" {
		t.Fatalf("expected normalised phone, got %q", repo.created.Phone)
	}
	if repo.created.Status != repository.StatusOpen || repo.created.Source != defaultSource {
		t.Fatalf("unexpected lifecycle defaults: %q %q", repo.created.Status, repo.created.Source)
	}
	if repo.created.Email == nil || *repo.created.Email != "Ravi@Example.com" {
		t.Fatalf("expected trimmed email, got %v", repo.created.Email)
	}
	if repo.created.CitizenID != nil {
		t.Fatal("expected no citizen link for a new lead")
	}
	if repo.created.ScoreVersion != qualification.ScoreVersion {
		t.Fatalf("expected score version %q, got %q", qualification.ScoreVersion, repo.created.ScoreVersion)
	}
	if repo.created.QualifiedAt == nil || !repo.created.QualifiedAt.Equal(fixedNow) {
		t.Fatalf("expected qualified_at %v, got %v", fixedNow, repo.created.QualifiedAt)
	}
	if resp.Qualification.LeadScore != repo.created.LeadScore {
		t.Fatalf("summary and stored score disagree: %d vs %d", resp.Qualification.LeadScore, repo.created.LeadScore)
	}
	if len(resp.Factors) == 0 {
		t.Fatal("expected score factors in response")
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.published))
	}
	ev, ok := bus.published[0].(events.InquiryQualified)
	if !ok {
		t.Fatalf("expected InquiryQualified, got %T", bus.published[0])
	}
	if ev.PreviousStatus != "" || ev.QualificationStatus != repo.created.QualificationStatus {
		t.Fatalf("unexpected event payload: %+v", ev)
	}
}

func TestCreateFailsWhenHistoryUnavailable(t *testing.T) {
	repo := &fakeRepo{}
	bus := &recordingBus{}
	svc := newService(repo, fakeHistory{err: errors.New("connection refused")}, bus)

	_, err := svc.Create(context.Background(), transport.CreateInquiryRequest{
		Phone:       "+919876543210",
		CitizenName: "Ravi",
	})
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if repo.created != nil {
		t.Fatal("expected nothing stored when history lookup fails")
	}
	if len(bus.published) != 0 {
		t.Fatal("expected no events on failure")
	}
}

func TestRequalifyByPhoneLinksCitizenAndContinuesAfterFailure(t *testing.T) {
	citizenID := uuid.New()
	last := fixedNow.AddDate(0, 0, -10)
	failing := uuid.New()
	healthy := uuid.New()

	repo := &fakeRepo{
		active: []repository.Inquiry{
			{ID: failing, Phone: "+919876543210", QualificationStatus: "unqualified"},
			{ID: healthy, Phone: "+919876543210", QualificationStatus: "unqualified"},
		},
		failApplyFor: failing,
		previous:     "unqualified",
	}
	history := fakeHistory{history: &qualification.EngagementHistory{
		CitizenID:         citizenID,
		ConsultationCount: 2,
		PastBenefitCount:  1,
		TotalBenefit:      6000,
		LastInteractionAt: &last,
		EngagementScore:   40,
	}}
	bus := &recordingBus{}
	svc := newService(repo, history, bus)

	updated, err := svc.RequalifyByPhone(context.Background(), "9876543210")
	if err == nil {
		t.Fatal("expected joined error for the failing inquiry")
	}
	if updated != 1 {
		t.Fatalf("expected one inquiry updated, got %d", updated)
	}

	q, ok := repo.applied[healthy]
	if !ok {
		t.Fatal("expected healthy inquiry to be re-qualified")
	}
	if q.CitizenID == nil || *q.CitizenID != citizenID {
		t.Fatalf("expected citizen link %s, got %v", citizenID, q.CitizenID)
	}
	if q.PastBenefitCount != 1 || q.TotalBenefit != 6000 || q.EngagementScore != 40 {
		t.Fatalf("expected history snapshot on qualification, got %+v", q)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.published))
	}
	if ev := bus.published[0].(events.InquiryQualified); ev.PreviousStatus != "unqualified" {
		t.Fatalf("expected previous status to be carried, got %q", ev.PreviousStatus)
	}
}

func TestFollowUpTransition(t *testing.T) {
	cases := []struct {
		outcome       string
		status        string
		qualification string
	}{
		{"interested", repository.StatusQualified, "qualified"},
		{"not_interested", repository.StatusClosed, "disqualified"},
		{"answered", repository.StatusContacted, ""},
		{"application_started", repository.StatusConverted, "qualified"},
		{"no_answer", "", ""},
		{"busy", "", ""},
		{"callback", "", ""},
	}

	for _, tc := range cases {
		status, qual := FollowUpTransition(tc.outcome)
		if got := deref(status); got != tc.status {
			t.Fatalf("%s: expected status %q, got %q", tc.outcome, tc.status, got)
		}
		if got := deref(qual); got != tc.qualification {
			t.Fatalf("%s: expected qualification %q, got %q", tc.outcome, tc.qualification, got)
		}
	}
}

func TestRecordFollowUpStampsCallTime(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo, fakeHistory{}, &recordingBus{})

	operator := uuid.New()
	resp, err := svc.RecordFollowUp(context.Background(), uuid.New(), operator, transport.FollowUpRequest{Outcome: "interested"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.followUp.CalledAt.Equal(fixedNow) {
		t.Fatalf("expected call time %v, got %v", fixedNow, repo.followUp.CalledAt)
	}
	if repo.followUp.CalledBy == nil || *repo.followUp.CalledBy != operator.String() {
		t.Fatalf("expected operator %s, got %v", operator, repo.followUp.CalledBy)
	}
	if resp.Status != repository.StatusQualified {
		t.Fatalf("expected qualified status, got %q", resp.Status)
	}
}

func TestRecordFollowUpWithoutOperator(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo, fakeHistory{}, &recordingBus{})

	if _, err := svc.RecordFollowUp(context.Background(), uuid.New(), uuid.Nil, transport.FollowUpRequest{Outcome: "busy"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.followUp.CalledBy != nil {
		t.Fatalf("expected no operator, got %v", *repo.followUp.CalledBy)
	}
}

func TestHighPriorityQueueClampsLimit(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo, fakeHistory{}, &recordingBus{})

	resp, err := svc.HighPriorityQueue(context.Background(), 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.queueLimit != MaxQueueSize {
		t.Fatalf("expected limit %d, got %d", MaxQueueSize, repo.queueLimit)
	}
	if resp.Count != 1 {
		t.Fatalf("expected count 1, got %d", resp.Count)
	}
}

func TestStatsRoundsAveragesAndRate(t *testing.T) {
	repo := &fakeRepo{stats: repository.Stats{
		Total:            8,
		Converted:        1,
		AvgLeadScore:     42.6,
		AvgICPMatchScore: 57.2,
	}}
	svc := newService(repo, fakeHistory{}, &recordingBus{})

	resp, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AvgLeadScore != 43 || resp.AvgICPMatchScore != 57 {
		t.Fatalf("unexpected averages: %d %d", resp.AvgLeadScore, resp.AvgICPMatchScore)
	}
	if resp.ConversionRate != 12.5 {
		t.Fatalf("expected conversion rate 12.5, got %v", resp.ConversionRate)
	}
}

func TestStatsEmptyPipeline(t *testing.T) {
	svc := newService(&fakeRepo{}, fakeHistory{}, &recordingBus{})

	resp, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ConversionRate != 0 {
		t.Fatalf("expected zero conversion rate, got %v", resp.ConversionRate)
	}
}

func TestRequalifyOpenEnqueuesWhenQueueConfigured(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	repo := &fakeRepo{activeIDs: ids}
	queue := &recordingQueue{}
	svc := newService(repo, fakeHistory{}, &recordingBus{})
	svc.SetRequalifyEnqueuer(queue)

	resp, err := svc.RequalifyOpen(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Inline || resp.Enqueued != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(queue.ids) != 2 || queue.ids[0] != ids[0] {
		t.Fatalf("unexpected enqueued ids: %v", queue.ids)
	}
	if len(repo.applied) != 0 {
		t.Fatal("expected no inline re-qualification when a queue is configured")
	}
}

func storedInquiry(id uuid.UUID) repository.Inquiry {
	interest := "PM-KISAN"
	email := "ravi@example.com"
	return repository.Inquiry{
		ID:                  id,
		Phone:               "+919876543210",
		CitizenName:         "Ravi",
		Email:               &email,
		SchemeInterest:      &interest,
		Source:              "website",
		Status:              repository.StatusOpen,
		LeadScore:           55,
		QualificationStatus: "qualified",
	}
}

func TestUpdateKeepsRowWhenQualificationFails(t *testing.T) {
	id := uuid.New()
	repo := &fakeRepo{stored: map[uuid.UUID]repository.Inquiry{id: storedInquiry(id)}}
	bus := &recordingBus{}
	svc := newService(repo, fakeHistory{err: errors.New("db down")}, bus)

	interest := "Air Conditioner"
	_, err := svc.Update(context.Background(), id, transport.UpdateInquiryRequest{SchemeInterest: &interest})
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if repo.updates != 0 {
		t.Fatalf("expected no write, got %d", repo.updates)
	}
	if got := *repo.stored[id].SchemeInterest; got != "PM-KISAN" {
		t.Fatalf("expected stored interest unchanged, got %q", got)
	}
	if len(bus.published) != 0 {
		t.Fatal("expected no events on failure")
	}
}

func TestUpdateScoresMergedFieldsAndClearsEmpty(t *testing.T) {
	id := uuid.New()
	repo := &fakeRepo{stored: map[uuid.UUID]repository.Inquiry{id: storedInquiry(id)}}
	bus := &recordingBus{}
	svc := newService(repo, fakeHistory{}, bus)

	empty := ""
	org := "  Gram Panchayat  "
	resp, err := svc.Update(context.Background(), id, transport.UpdateInquiryRequest{
		Email:        &empty,
		Organization: &org,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Email != nil {
		t.Fatalf("expected email cleared, got %q", *resp.Email)
	}
	if resp.Organization == nil || *resp.Organization != "Gram Panchayat" {
		t.Fatalf("expected organization set, got %v", resp.Organization)
	}
	if resp.SchemeInterest == nil || *resp.SchemeInterest != "PM-KISAN" {
		t.Fatalf("expected untouched interest kept, got %v", resp.SchemeInterest)
	}

	want := qualification.ComputeLeadScore(qualification.DefaultCriteria(), qualification.Inquiry{
		Phone:          "+919876543210",
		Organization:   "Gram Panchayat",
		SchemeInterest: "PM-KISAN",
		Source:         "website",
	}, nil, fixedNow)
	if resp.LeadScore != want {
		t.Fatalf("expected score of merged fields %d, got %d", want, resp.LeadScore)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.published))
	}
	if ev := bus.published[0].(events.InquiryQualified); ev.PreviousStatus != "qualified" {
		t.Fatalf("expected previous status from the write, got %q", ev.PreviousStatus)
	}
}

func TestRequalifyPublishesStatusReplacedByWrite(t *testing.T) {
	id := uuid.New()
	inq := storedInquiry(id)
	repo := &fakeRepo{
		stored:   map[uuid.UUID]repository.Inquiry{id: inq},
		previous: "high_priority",
	}
	bus := &recordingBus{}
	svc := newService(repo, fakeHistory{}, bus)

	if _, err := svc.Requalify(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.published))
	}
	if ev := bus.published[0].(events.InquiryQualified); ev.PreviousStatus != "high_priority" {
		t.Fatalf("expected previous status %q, got %q", "high_priority", ev.PreviousStatus)
	}
}
