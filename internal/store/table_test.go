package store

import (
	"reflect"
	"testing"

	"jobcal-engine/internal/domain"
)

func tableJobs() []domain.Job {
	mk := func(id int64, date, tm, customer string, st domain.Status, jt domain.JobType) domain.Job {
		j := job(id, date)
		j.Time = tm
		j.Customer = customer
		j.Status = st
		j.JobType = jt
		return j
	}
	return []domain.Job{
		mk(1, "2026-10-05", "09:00", "johnson", domain.StatusScheduled, domain.JobTypeMaintenance),
		mk(2, "2026-10-01", "10:30", "Smith", domain.StatusConfirmed, domain.JobTypeInstall),
		mk(3, "2026-10-09", "", "Emergency", domain.StatusUrgent, domain.JobTypeMaintenance),
		mk(4, "2026-10-01", "13:00", "Wilson", domain.StatusInProgress, domain.JobTypeMaintenance),
		mk(5, "2026-10-20", "11:00", "Oak St HOA", domain.StatusCompleted, domain.JobTypeMaintenance),
	}
}

func idsOf(jobs []domain.Job) []int64 {
	out := make([]int64, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func sorted(s SortState) []int64 {
	jobs := tableJobs()
	SortJobs(jobs, s)
	return idsOf(jobs)
}

func TestSortJobs(t *testing.T) {
	tests := []struct {
		name  string
		state SortState
		want  []int64
	}{
		{"date asc is stable", SortState{SortDate, Asc}, []int64{2, 4, 1, 3, 5}},
		{"date desc is stable", SortState{SortDate, Desc}, []int64{5, 3, 1, 2, 4}},
		{"missing time sorts first", SortState{SortTime, Asc}, []int64{3, 1, 2, 5, 4}},
		{"customer ignores case", SortState{SortCustomer, Asc}, []int64{3, 1, 5, 2, 4}},
		{"status", SortState{SortStatus, Asc}, []int64{5, 2, 4, 1, 3}},
		{"job type", SortState{SortJobType, Asc}, []int64{2, 1, 3, 4, 5}},
		{"zero value is date asc", SortState{}, []int64{2, 4, 1, 3, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sorted(tt.state); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortState_Toggle(t *testing.T) {
	s := SortState{}
	s = s.Toggle(SortDate)
	if s != (SortState{SortDate, Desc}) {
		t.Fatalf("first toggle = %+v", s)
	}
	s = s.Toggle(SortDate)
	if s != (SortState{SortDate, Asc}) {
		t.Fatalf("second toggle = %+v", s)
	}
	if got := sorted(s); !reflect.DeepEqual(got, sorted(SortState{SortDate, Asc})) {
		t.Errorf("double toggle did not restore ascending order: %v", got)
	}

	s = SortState{SortCustomer, Desc}.Toggle(SortStatus)
	if s != (SortState{SortStatus, Asc}) {
		t.Errorf("new field should reset to asc, got %+v", s)
	}
}

func TestParseSort(t *testing.T) {
	s, err := ParseSort("", "")
	if err != nil || s != (SortState{SortDate, Asc}) {
		t.Errorf("defaults = %+v, %v", s, err)
	}
	s, err = ParseSort("customer", "DESC")
	if err != nil || s != (SortState{SortCustomer, Desc}) {
		t.Errorf("customer desc = %+v, %v", s, err)
	}
	if _, err := ParseSort("score", ""); err == nil {
		t.Error("expected error for unknown field")
	}
	if _, err := ParseSort("date", "up"); err == nil {
		t.Error("expected error for unknown order")
	}
}

func TestParseView(t *testing.T) {
	for in, want := range map[string]View{"": ViewAll, "all": ViewAll, "current": ViewCurrent, "completed": ViewCompleted} {
		got, err := ParseView(in)
		if err != nil || got != want {
			t.Errorf("ParseView(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseView("archived"); err == nil {
		t.Error("expected error")
	}
}

func TestList(t *testing.T) {
	jobs := tableJobs()
	jobs[0].TeamLeader = &domain.TeamLeader{ID: 1}
	jobs[3].TeamLeader = &domain.TeamLeader{ID: 1}
	jobs[4].TeamLeader = &domain.TeamLeader{ID: 2}
	s := newTestStore(t, jobs...)

	tests := []struct {
		name string
		opts ListJobsOpts
		want []int64
	}{
		{"no filter keeps insertion order", ListJobsOpts{}, []int64{1, 2, 3, 4, 5}},
		{"current view", ListJobsOpts{View: ViewCurrent}, []int64{2, 4}},
		{"completed view", ListJobsOpts{View: ViewCompleted}, []int64{5}},
		{"team leader", ListJobsOpts{Filters: domain.Filters{TeamLeaders: []int64{1}}}, []int64{1, 4}},
		{"type + view", ListJobsOpts{View: ViewCurrent, Filters: domain.Filters{JobTypes: []domain.JobType{domain.JobTypeInstall}}}, []int64{2}},
		{"sorted", ListJobsOpts{Sort: &SortState{SortCustomer, Desc}}, []int64{4, 2, 5, 1, 3}},
		{"limit", ListJobsOpts{Sort: &SortState{SortDate, Asc}, Limit: 2}, []int64{2, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := idsOf(s.List(tt.opts)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
