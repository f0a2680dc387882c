// Package store holds the in-memory job collection and the UI state that
// must follow it (selection, drag session).
package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"jobcal-engine/internal/domain"
	"jobcal-engine/internal/metrics"
)

var (
	ErrNotFound          = errors.New("job not found")
	ErrNoDrag            = errors.New("no drag in progress")
	ErrUnknownTeamLeader = errors.New("unknown team leader")
	ErrUnknownEmployee   = errors.New("unknown employee")
)

// Default values offered by the new-job form.
const (
	DefaultTime    = "09:00"
	DefaultStatus  = domain.StatusScheduled
	DefaultJobType = domain.JobTypeMaintenance
)

type Store struct {
	mu sync.RWMutex

	jobs      []domain.Job
	leaders   []domain.TeamLeader
	employees []domain.Employee

	selected int64 // 0 when nothing is selected
	drag     int64 // 0 when no drag is active

	today   func() domain.Date
	metrics metrics.Sink
}

type Option func(*Store)

// WithToday sets the clock used for new-job defaults.
func WithToday(f func() domain.Date) Option {
	return func(s *Store) { s.today = f }
}

func WithMetrics(m metrics.Sink) Option {
	return func(s *Store) { s.metrics = m }
}

// New builds a store from reference data and initial jobs. Job identifiers
// must be unique and positive.
func New(leaders []domain.TeamLeader, employees []domain.Employee, jobs []domain.Job, opts ...Option) (*Store, error) {
	s := &Store{
		leaders:   append([]domain.TeamLeader(nil), leaders...),
		employees: append([]domain.Employee(nil), employees...),
		today:     func() domain.Date { return domain.Today(time.Now(), time.Local) },
		metrics:   metrics.NewNoopSink(),
	}
	for _, o := range opts {
		o(s)
	}

	seen := make(map[int64]bool, len(jobs))
	for _, j := range jobs {
		if j.ID <= 0 {
			return nil, fmt.Errorf("job %q: id must be positive", j.Title)
		}
		if seen[j.ID] {
			return nil, fmt.Errorf("duplicate job id %d", j.ID)
		}
		seen[j.ID] = true
		c := j.Clone()
		c.Employees = domain.UniqueEmployees(c.Employees)
		s.jobs = append(s.jobs, c)
	}
	s.metrics.JobsTotal(len(s.jobs))
	return s, nil
}

func (s *Store) Today() domain.Date { return s.today() }

// Jobs returns a copy of every job in insertion order.
func (s *Store) Jobs() []domain.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.jobs)
}

func (s *Store) Get(id int64) (domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return domain.Job{}, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	return s.jobs[i].Clone(), nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

func (s *Store) TeamLeaders() []domain.TeamLeader {
	return append([]domain.TeamLeader(nil), s.leaders...)
}

func (s *Store) Employees() []domain.Employee {
	return append([]domain.Employee(nil), s.employees...)
}

// NewJobDefaults is the prefilled new-job form.
func (s *Store) NewJobDefaults() JobInput {
	return JobInput{
		Date:        s.today(),
		Time:        DefaultTime,
		Status:      DefaultStatus,
		JobType:     DefaultJobType,
		EmployeeIDs: []int64{},
	}
}

// JobInput carries the fields a client may set. Team leader and employees
// are given by identifier and resolved against the reference data.
type JobInput struct {
	Date         domain.Date    `json:"date"`
	Time         string         `json:"time"`
	Title        string         `json:"title"`
	Status       domain.Status  `json:"status"`
	Customer     string         `json:"customer"`
	Phone        string         `json:"phone"`
	Address      string         `json:"address"`
	JobType      domain.JobType `json:"jobType"`
	TeamLeaderID int64          `json:"teamLeaderId"`
	EmployeeIDs  []int64        `json:"employeeIds"`
}

// Create validates in, assigns max(existing)+1 and appends the job.
// Missing date, status and type fall back to the new-job defaults.
func (s *Store) Create(in JobInput) (domain.Job, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Customer = strings.TrimSpace(in.Customer)
	if in.Date.IsZero() {
		in.Date = s.today()
	}
	if in.Status == "" {
		in.Status = DefaultStatus
	}
	if in.JobType == "" {
		in.JobType = DefaultJobType
	}

	var verr domain.ValidationErrors
	if in.Title == "" {
		verr.Add("title", "is required")
	}
	if in.Customer == "" {
		verr.Add("customer", "is required")
	}
	checkEnums(&verr, in.Status, in.JobType)
	if err := verr.Err(); err != nil {
		return domain.Job{}, err
	}

	leader, emps, err := s.resolve(in.TeamLeaderID, in.EmployeeIDs)
	if err != nil {
		return domain.Job{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID()
	j := domain.Job{
		ID:         id,
		Date:       in.Date,
		Time:       strings.TrimSpace(in.Time),
		Title:      in.Title,
		Status:     in.Status,
		Customer:   in.Customer,
		Phone:      strings.TrimSpace(in.Phone),
		Address:    strings.TrimSpace(in.Address),
		JobType:    in.JobType,
		Avatar:     fmt.Sprintf("https://i.pravatar.cc/150?img=%d", id%70),
		TeamLeader: leader,
		Employees:  emps,
	}
	s.jobs = append(s.jobs, j)
	s.metrics.JobMutation(metrics.OpCreate)
	s.metrics.JobsTotal(len(s.jobs))
	return j.Clone(), nil
}

// Update replaces the editable set of job id: status, time, phone, address,
// type, team leader and employees. Title, customer, date and identifier
// are left alone.
func (s *Store) Update(id int64, in JobInput) (domain.Job, error) {
	var verr domain.ValidationErrors
	checkEnums(&verr, in.Status, in.JobType)
	if err := verr.Err(); err != nil {
		return domain.Job{}, err
	}
	leader, emps, err := s.resolve(in.TeamLeaderID, in.EmployeeIDs)
	if err != nil {
		return domain.Job{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return domain.Job{}, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	j := &s.jobs[i]
	j.Status = in.Status
	j.Time = strings.TrimSpace(in.Time)
	j.Phone = strings.TrimSpace(in.Phone)
	j.Address = strings.TrimSpace(in.Address)
	j.JobType = in.JobType
	j.TeamLeader = leader
	j.Employees = emps
	s.metrics.JobMutation(metrics.OpUpdate)
	return j.Clone(), nil
}

// Move reassigns the date of job id and nothing else.
func (s *Store) Move(id int64, date domain.Date) (domain.Job, error) {
	if date.IsZero() {
		var verr domain.ValidationErrors
		verr.Add("date", "is required")
		return domain.Job{}, verr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moveLocked(id, date)
}

func (s *Store) moveLocked(id int64, date domain.Date) (domain.Job, error) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.Job{}, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	s.jobs[i].Date = date
	s.metrics.JobMutation(metrics.OpMove)
	return s.jobs[i].Clone(), nil
}

// Cleared reports which transient state a Delete dropped with the job.
type Cleared struct {
	Selection bool
	Drag      bool
}

// Delete removes job id. A selection or drag pointing at it is cleared.
func (s *Store) Delete(id int64) (Cleared, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return Cleared{}, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
	var c Cleared
	if s.selected == id {
		s.selected = 0
		c.Selection = true
	}
	if s.drag == id {
		s.drag = 0
		c.Drag = true
	}
	s.metrics.JobMutation(metrics.OpDelete)
	s.metrics.JobsTotal(len(s.jobs))
	return c, nil
}

// ToggleEmployee assigns the employee to the job or removes it when it is
// already assigned.
func (s *Store) ToggleEmployee(jobID, employeeID int64) (domain.Job, error) {
	e, ok := s.employee(employeeID)
	if !ok {
		return domain.Job{}, fmt.Errorf("employee %d: %w", employeeID, ErrUnknownEmployee)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(jobID)
	if i < 0 {
		return domain.Job{}, fmt.Errorf("job %d: %w", jobID, ErrNotFound)
	}
	s.jobs[i].ToggleEmployee(e)
	s.metrics.JobMutation(metrics.OpToggleEmployee)
	return s.jobs[i].Clone(), nil
}

// Select opens the detail view for job id.
func (s *Store) Select(id int64) (domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return domain.Job{}, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	s.selected = id
	return s.jobs[i].Clone(), nil
}

// Selected returns the current state of the selected job.
func (s *Store) Selected() (domain.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == 0 {
		return domain.Job{}, false
	}
	i := s.indexOf(s.selected)
	if i < 0 {
		return domain.Job{}, false
	}
	return s.jobs[i].Clone(), true
}

func (s *Store) ClearSelection() {
	s.mu.Lock()
	s.selected = 0
	s.mu.Unlock()
}

func (s *Store) indexOf(id int64) int {
	for i := range s.jobs {
		if s.jobs[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) nextID() int64 {
	var hi int64
	for _, j := range s.jobs {
		if j.ID > hi {
			hi = j.ID
		}
	}
	return hi + 1
}

func (s *Store) employee(id int64) (domain.Employee, bool) {
	for _, e := range s.employees {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Employee{}, false
}

// resolve maps identifiers to reference data. A zero leader id means none.
func (s *Store) resolve(leaderID int64, employeeIDs []int64) (*domain.TeamLeader, []domain.Employee, error) {
	var leader *domain.TeamLeader
	if leaderID != 0 {
		for _, tl := range s.leaders {
			if tl.ID == leaderID {
				c := tl
				leader = &c
				break
			}
		}
		if leader == nil {
			return nil, nil, fmt.Errorf("team leader %d: %w", leaderID, ErrUnknownTeamLeader)
		}
	}

	emps := make([]domain.Employee, 0, len(employeeIDs))
	for _, id := range employeeIDs {
		e, ok := s.employee(id)
		if !ok {
			return nil, nil, fmt.Errorf("employee %d: %w", id, ErrUnknownEmployee)
		}
		emps = append(emps, e)
	}
	return leader, domain.UniqueEmployees(emps), nil
}

func checkEnums(verr *domain.ValidationErrors, st domain.Status, jt domain.JobType) {
	if !st.Valid() {
		verr.Add("status", "must be one of %v", domain.Statuses)
	}
	if !jt.Valid() {
		verr.Add("jobType", "must be one of %v", domain.JobTypes)
	}
}

func cloneAll(in []domain.Job) []domain.Job {
	out := make([]domain.Job, len(in))
	for i, j := range in {
		out[i] = j.Clone()
	}
	return out
}
