package services

import (
	"context"
	"sort"
	"sync"

	"qr-attendance/internal/models"
	"qr-attendance/internal/repository"
)

// dateBucketLen is the YYYY-MM-DD prefix of an ISO-8601 timestamp.
const dateBucketLen = 10

// DateBucket derives the calendar-day grouping key for a record date by
// truncating the raw ISO string. No timezone conversion is applied.
func DateBucket(date string) string {
	if len(date) <= dateBucketLen {
		return date
	}
	return date[:dateBucketLen]
}

// RosterView is a snapshot of the aggregated roster: the selectable dates
// (most recent first), the selected date, and the records for that date.
type RosterView struct {
	Dates    []string
	Selected string
	Records  []models.AttendanceRecord
}

// RosterService fetches attendance records and groups them by calendar day.
type RosterService struct {
	repo repository.AttendanceRepository

	mu       sync.Mutex
	records  []models.AttendanceRecord
	dates    []string
	selected string
	fetchSeq uint64
}

// NewRosterService creates a roster service over the repository.
func NewRosterService(repo repository.AttendanceRepository) *RosterService {
	return &RosterService{repo: repo}
}

// Refresh fetches the full record set and recomputes the date buckets and
// default selection. Each call takes a fetch token; a fetch that resolves
// after a newer one started is discarded, so a stale response can never
// overwrite fresher data.
func (s *RosterService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.mu.Unlock()

	records, err := s.repo.ListAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.fetchSeq {
		// A newer fetch superseded this one.
		return nil
	}
	if err != nil {
		return err
	}

	s.records = records
	s.dates = buckets(records)
	if len(s.dates) > 0 {
		s.selected = s.dates[0]
	} else {
		s.selected = ""
	}
	return nil
}

// Select changes the selected date. Unknown dates are ignored; the filtered
// view recomputes synchronously on the next View call.
func (s *RosterService) Select(date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.dates {
		if d == date {
			s.selected = date
			return true
		}
	}
	return false
}

// View returns the current snapshot, filtered to the selected date.
// An empty snapshot is a valid state, distinct from a fetch error.
func (s *RosterService) View() RosterView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked(s.selected)
}

// ViewFor returns the snapshot filtered to the given date without touching
// the shared selection, so concurrent callers cannot bleed their date
// choice into each other. An empty or unknown date falls back to the
// current selection.
func (s *RosterService) ViewFor(date string) RosterView {
	s.mu.Lock()
	defer s.mu.Unlock()

	selected := s.selected
	for _, d := range s.dates {
		if d == date {
			selected = date
			break
		}
	}
	return s.viewLocked(selected)
}

func (s *RosterService) viewLocked(selected string) RosterView {
	view := RosterView{
		Dates:    append([]string(nil), s.dates...),
		Selected: selected,
		Records:  make([]models.AttendanceRecord, 0, len(s.records)),
	}
	for _, r := range s.records {
		if DateBucket(r.Date) == selected && selected != "" {
			view.Records = append(view.Records, r)
		}
	}
	return view
}

// buckets computes the distinct date buckets of a record set, sorted
// descending. For YYYY-MM-DD strings lexicographic descent is descending
// chronological order.
func buckets(records []models.AttendanceRecord) []string {
	seen := make(map[string]struct{}, len(records))
	var dates []string
	for _, r := range records {
		bucket := DateBucket(r.Date)
		if _, ok := seen[bucket]; ok {
			continue
		}
		seen[bucket] = struct{}{}
		dates = append(dates, bucket)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}
