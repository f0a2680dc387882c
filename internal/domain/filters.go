package domain

import "slices"

// Filters restricts the visible jobs. An empty set places no restriction
// on its dimension.
type Filters struct {
	TeamLeaders []int64   `json:"teamLeaders"`
	JobTypes    []JobType `json:"jobTypes"`
}

// Matches reports whether j passes both dimensions. A job without a team
// leader fails any active team-leader filter.
func (f Filters) Matches(j Job) bool {
	if len(f.TeamLeaders) > 0 {
		if j.TeamLeader == nil || !slices.Contains(f.TeamLeaders, j.TeamLeader.ID) {
			return false
		}
	}
	if len(f.JobTypes) > 0 && !slices.Contains(f.JobTypes, j.JobType) {
		return false
	}
	return true
}

// Apply keeps the matching jobs in their input order.
func (f Filters) Apply(jobs []Job) []Job {
	out := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if f.Matches(j) {
			out = append(out, j)
		}
	}
	return out
}

// ActiveCount is the badge number shown next to the filter button.
func (f Filters) ActiveCount() int { return len(f.TeamLeaders) + len(f.JobTypes) }

func (f Filters) IsEmpty() bool { return f.ActiveCount() == 0 }
