package store

import (
	"fmt"

	"jobcal-engine/internal/domain"
	"jobcal-engine/internal/metrics"
)

// StartDrag begins dragging job id, replacing any drag already active.
func (s *Store) StartDrag(id int64) (domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return domain.Job{}, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	s.drag = id
	return s.jobs[i].Clone(), nil
}

// Dragging returns the job being dragged.
func (s *Store) Dragging() (domain.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.drag == 0 {
		return domain.Job{}, false
	}
	i := s.indexOf(s.drag)
	if i < 0 {
		return domain.Job{}, false
	}
	return s.jobs[i].Clone(), true
}

// Drop ends the drag on date. Dropping onto the job's current date ends
// the drag without a mutation; moved reports which case happened.
func (s *Store) Drop(date domain.Date) (job domain.Job, moved bool, err error) {
	if date.IsZero() {
		var verr domain.ValidationErrors
		verr.Add("date", "is required")
		return domain.Job{}, false, verr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag == 0 {
		return domain.Job{}, false, ErrNoDrag
	}
	id := s.drag
	s.drag = 0

	i := s.indexOf(id)
	if i < 0 {
		return domain.Job{}, false, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	if s.jobs[i].Date == date {
		s.metrics.DragOutcome(metrics.DragNoop)
		return s.jobs[i].Clone(), false, nil
	}
	j, err := s.moveLocked(id, date)
	if err != nil {
		return domain.Job{}, false, err
	}
	s.metrics.DragOutcome(metrics.DragMoved)
	return j, true, nil
}

// CancelDrag discards the active drag without touching any job.
func (s *Store) CancelDrag() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag == 0 {
		return ErrNoDrag
	}
	s.drag = 0
	s.metrics.DragOutcome(metrics.DragCancelled)
	return nil
}
