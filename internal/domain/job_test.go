package domain

import (
	"errors"
	"testing"
)

func sampleJobs() []Job {
	alice := &TeamLeader{ID: 1, Name: "Alice"}
	bob := &TeamLeader{ID: 2, Name: "Bob"}
	return []Job{
		{ID: 1, Title: "Spring cleanup", JobType: JobTypeMaintenance, TeamLeader: alice},
		{ID: 2, Title: "Irrigation", JobType: JobTypeInstall, TeamLeader: bob},
		{ID: 3, Title: "Mulch", JobType: JobTypeMaintenance},
		{ID: 4, Title: "Patio", JobType: JobTypeInstall, TeamLeader: alice},
	}
}

func ids(jobs []Job) []int64 {
	out := make([]int64, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilters_Apply(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		want    []int64
	}{
		{"empty keeps all in order", Filters{}, []int64{1, 2, 3, 4}},
		{"team leader", Filters{TeamLeaders: []int64{1}}, []int64{1, 4}},
		{"two leaders", Filters{TeamLeaders: []int64{1, 2}}, []int64{1, 2, 4}},
		{"job type", Filters{JobTypes: []JobType{JobTypeMaintenance}}, []int64{1, 3}},
		{"both dimensions", Filters{TeamLeaders: []int64{1}, JobTypes: []JobType{JobTypeInstall}}, []int64{4}},
		{"unknown leader", Filters{TeamLeaders: []int64{99}}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(tt.filters.Apply(sampleJobs()))
			if !equalIDs(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilters_UnassignedFailsLeaderFilter(t *testing.T) {
	j := Job{ID: 9, JobType: JobTypeInstall}
	if (Filters{TeamLeaders: []int64{1}}).Matches(j) {
		t.Error("job with no team leader must fail an active leader filter")
	}
	if !(Filters{}).Matches(j) {
		t.Error("empty filter must match")
	}
}

func TestFilters_ActiveCount(t *testing.T) {
	f := Filters{TeamLeaders: []int64{1, 2}, JobTypes: []JobType{JobTypeInstall}}
	if f.ActiveCount() != 3 {
		t.Errorf("ActiveCount = %d", f.ActiveCount())
	}
	if f.IsEmpty() || !(Filters{}).IsEmpty() {
		t.Error("IsEmpty wrong")
	}
}

func TestJob_ToggleEmployee(t *testing.T) {
	j := Job{ID: 1}
	e := Employee{ID: 7, Name: "Sam"}

	j.ToggleEmployee(e)
	if !j.HasEmployee(7) || len(j.Employees) != 1 {
		t.Fatalf("employee not added: %+v", j.Employees)
	}
	j.ToggleEmployee(e)
	if j.HasEmployee(7) || len(j.Employees) != 0 {
		t.Fatalf("employee not removed: %+v", j.Employees)
	}
}

func TestJob_CloneIsDeep(t *testing.T) {
	j := Job{ID: 1, TeamLeader: &TeamLeader{ID: 1, Name: "Alice"}, Employees: []Employee{{ID: 1}}}
	c := j.Clone()
	c.TeamLeader.Name = "changed"
	c.Employees[0].ID = 42
	if j.TeamLeader.Name != "Alice" || j.Employees[0].ID != 1 {
		t.Error("clone shares memory with original")
	}
}

func TestUniqueEmployees(t *testing.T) {
	in := []Employee{{ID: 1}, {ID: 2}, {ID: 1}, {ID: 3}, {ID: 2}}
	got := UniqueEmployees(in)
	if len(got) != 3 || got[0].ID != 1 || got[1].ID != 2 || got[2].ID != 3 {
		t.Errorf("got %+v", got)
	}
}

func TestLabels(t *testing.T) {
	cases := map[Status]string{
		StatusScheduled:  "Scheduled",
		StatusConfirmed:  "Confirmed",
		StatusInProgress: "In Progress",
		StatusCompleted:  "Completed",
		StatusUrgent:     "Urgent",
	}
	for s, want := range cases {
		if s.Label() != want {
			t.Errorf("%s label = %q, want %q", s, s.Label(), want)
		}
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("cancelled").Valid() {
		t.Error("unknown status accepted")
	}
	if JobTypeInstall.Label() != "Install" || JobTypeMaintenance.Label() != "Maintenance" {
		t.Error("job type labels wrong")
	}
	if JobType("demo").Valid() {
		t.Error("unknown job type accepted")
	}
}

func TestValidationErrors(t *testing.T) {
	var v ValidationErrors
	if v.Err() != nil {
		t.Fatal("empty ValidationErrors should be nil error")
	}
	v.Add("title", "is required")
	v.Add("status", "must be one of %v", Statuses)

	err := v.Err()
	var ve ValidationErrors
	if !errors.As(err, &ve) || len(ve) != 2 {
		t.Fatalf("errors.As failed: %v", err)
	}
	if ve[0].Error() != "title is required" {
		t.Errorf("got %q", ve[0].Error())
	}
}
