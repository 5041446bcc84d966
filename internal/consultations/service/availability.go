package service

import (
	"context"
	"time"

	"saarthi_backend/internal/consultations/repository"
	"saarthi_backend/internal/consultations/transport"
	"saarthi_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	// SessionLength is how long one consultation holds an agent. Two
	// bookings conflict when their start times are closer than this.
	SessionLength = 15 * time.Minute

	// DefaultWindowMinutes is how far either side of the requested slot
	// alternatives are searched.
	DefaultWindowMinutes = 60
	maxWindowMinutes     = 12 * 60
	maxSuggestions       = 6

	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// slot is a consultation start time. Dates and times are stored as office
// wall-clock text, so they are parsed in UTC and only compared to each other.
func slot(date, clock string) (time.Time, error) {
	return time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, time.UTC)
}

// availability is the outcome of checking one requested slot.
type availability struct {
	conflicts   []repository.Consultation
	suggestions []time.Time
}

// checkSlot loads the bookings around target and reports the ones that
// overlap it plus up to maxSuggestions free starts inside the window.
func (s *Service) checkSlot(ctx context.Context, target time.Time, windowMinutes int, excludeID uuid.UUID) (availability, error) {
	window := time.Duration(windowMinutes) * time.Minute
	from := target.Add(-window)
	to := target.Add(window + SessionLength)

	booked, err := s.repo.ListBooked(ctx, from.Format(dateLayout), to.Format(dateLayout), excludeID)
	if err != nil {
		return availability{}, err
	}

	starts := make([]time.Time, 0, len(booked))
	var result availability
	for _, c := range booked {
		start, err := slot(c.ConsultationDate, c.ConsultationTime)
		if err != nil {
			s.log.Warn("skipping consultation with unparseable slot", "consultationId", c.ID, "error", err)
			continue
		}
		starts = append(starts, start)
		if overlaps(start, target) {
			result.conflicts = append(result.conflicts, c)
		}
	}

	result.suggestions = suggestSlots(target, window, starts)
	return result, nil
}

// suggestSlots walks the window in SessionLength steps and keeps the starts
// that overlap no booking, skipping target itself.
func suggestSlots(target time.Time, window time.Duration, booked []time.Time) []time.Time {
	var out []time.Time
	for start := target.Add(-window); !start.After(target.Add(window)); start = start.Add(SessionLength) {
		if start.Equal(target) {
			continue
		}
		free := true
		for _, b := range booked {
			if overlaps(start, b) {
				free = false
				break
			}
		}
		if free {
			out = append(out, start)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out
}

func overlaps(a, b time.Time) bool {
	return a.Before(b.Add(SessionLength)) && b.Before(a.Add(SessionLength))
}

// CheckAvailability reports whether a slot is free and suggests nearby
// alternatives.
func (s *Service) CheckAvailability(ctx context.Context, req transport.CheckAvailabilityRequest) (transport.AvailabilityResponse, error) {
	target, err := slot(req.ConsultationDate, req.ConsultationTime)
	if err != nil {
		return transport.AvailabilityResponse{}, apperr.Validation("invalid consultation date or time")
	}
	windowMinutes := req.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = DefaultWindowMinutes
	}
	if windowMinutes > maxWindowMinutes {
		windowMinutes = maxWindowMinutes
	}

	result, err := s.checkSlot(ctx, target, windowMinutes, uuid.Nil)
	if err != nil {
		return transport.AvailabilityResponse{}, err
	}
	return toAvailabilityResponse(result), nil
}

func toAvailabilityResponse(a availability) transport.AvailabilityResponse {
	resp := transport.AvailabilityResponse{
		Available:      len(a.conflicts) == 0,
		Conflicts:      make([]transport.SlotConflict, 0, len(a.conflicts)),
		SuggestedSlots: make([]transport.SuggestedSlot, 0, len(a.suggestions)),
	}
	for _, c := range a.conflicts {
		resp.Conflicts = append(resp.Conflicts, transport.SlotConflict{
			ConsultationDate: c.ConsultationDate,
			ConsultationTime: c.ConsultationTime,
			CitizenName:      c.CitizenName,
		})
	}
	for _, t := range a.suggestions {
		resp.SuggestedSlots = append(resp.SuggestedSlots, transport.SuggestedSlot{
			ConsultationDate: t.Format(dateLayout),
			ConsultationTime: t.Format(timeLayout),
		})
	}
	if resp.Available {
		resp.Message = "time slot is available"
	} else {
		resp.Message = "time slot is already booked"
	}
	return resp
}
