package domain

import (
	"slices"
	"strings"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "inprogress"
	StatusCompleted  Status = "completed"
	StatusUrgent     Status = "urgent"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusUrgent}

func (s Status) Valid() bool { return slices.Contains(Statuses, s) }

func (s Status) Label() string {
	switch s {
	case StatusInProgress:
		return "In Progress"
	case "":
		return ""
	default:
		return strings.ToUpper(string(s[:1])) + string(s[1:])
	}
}

type JobType string

const (
	JobTypeInstall     JobType = "install"
	JobTypeMaintenance JobType = "maintenance"
)

var JobTypes = []JobType{JobTypeInstall, JobTypeMaintenance}

func (t JobType) Valid() bool { return slices.Contains(JobTypes, t) }

func (t JobType) Label() string {
	switch t {
	case JobTypeInstall:
		return "Install"
	case JobTypeMaintenance:
		return "Maintenance"
	default:
		return string(t)
	}
}

// TeamLeader and Employee are reference data, fixed for the session.
type TeamLeader struct {
	ID     int64  `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Avatar string `json:"avatar,omitempty" yaml:"avatar"`
}

type Employee struct {
	ID     int64  `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Avatar string `json:"avatar,omitempty" yaml:"avatar"`
}

// Job is one unit of scheduled work.
//
// Time is a display-only "HH:MM" string kept apart from Date.
type Job struct {
	ID         int64       `json:"id"`
	Date       Date        `json:"date"`
	Time       string      `json:"time,omitempty"`
	Title      string      `json:"title"`
	Status     Status      `json:"status"`
	Customer   string      `json:"customer"`
	Phone      string      `json:"phone,omitempty"`
	Address    string      `json:"address,omitempty"`
	JobType    JobType     `json:"jobType"`
	Avatar     string      `json:"avatar,omitempty"`
	TeamLeader *TeamLeader `json:"teamLeader"`
	Employees  []Employee  `json:"employees"`
}

// Clone returns a deep copy; the store never hands out its own slices.
func (j Job) Clone() Job {
	out := j
	if j.TeamLeader != nil {
		tl := *j.TeamLeader
		out.TeamLeader = &tl
	}
	out.Employees = make([]Employee, len(j.Employees))
	copy(out.Employees, j.Employees)
	return out
}

func (j Job) HasEmployee(id int64) bool {
	return slices.ContainsFunc(j.Employees, func(e Employee) bool { return e.ID == id })
}

// ToggleEmployee removes e when assigned, otherwise appends it.
func (j *Job) ToggleEmployee(e Employee) {
	if j.HasEmployee(e.ID) {
		j.Employees = slices.DeleteFunc(j.Employees, func(x Employee) bool { return x.ID == e.ID })
		return
	}
	j.Employees = append(j.Employees, e)
}

// UniqueEmployees drops repeated identifiers, keeping first occurrence order.
func UniqueEmployees(in []Employee) []Employee {
	seen := make(map[int64]bool, len(in))
	out := make([]Employee, 0, len(in))
	for _, e := range in {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	return out
}

// TeamLeaderID returns 0 when no leader is assigned.
func (j Job) TeamLeaderID() int64 {
	if j.TeamLeader == nil {
		return 0
	}
	return j.TeamLeader.ID
}
