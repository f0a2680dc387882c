package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"jobcal-engine/internal/domain"
)

//go:embed seed.yml
var defaultSeed []byte

// Seed is the starting state of the store: reference data plus jobs that
// point at it by identifier.
type Seed struct {
	TeamLeaders []domain.TeamLeader `yaml:"team_leaders"`
	Employees   []domain.Employee   `yaml:"employees"`
	Jobs        []SeedJob           `yaml:"jobs"`
}

type SeedJob struct {
	ID         int64          `yaml:"id"`
	Date       domain.Date    `yaml:"date"`
	Time       string         `yaml:"time"`
	Title      string         `yaml:"title"`
	Status     domain.Status  `yaml:"status"`
	Customer   string         `yaml:"customer"`
	Phone      string         `yaml:"phone"`
	Address    string         `yaml:"address"`
	JobType    domain.JobType `yaml:"job_type"`
	Avatar     string         `yaml:"avatar"`
	TeamLeader int64          `yaml:"team_leader"`
	Employees  []int64        `yaml:"employees"`
}

// LoadSeed reads path, or the bundled sample data when path is empty.
func LoadSeed(path string) (Seed, error) {
	b := defaultSeed
	if path != "" {
		var err error
		if b, err = os.ReadFile(path); err != nil {
			return Seed{}, err
		}
	}
	var s Seed
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	return s, nil
}

// Resolve turns identifier references into domain values.
func (s Seed) Resolve() ([]domain.TeamLeader, []domain.Employee, []domain.Job, error) {
	leaders := make(map[int64]domain.TeamLeader, len(s.TeamLeaders))
	for _, tl := range s.TeamLeaders {
		leaders[tl.ID] = tl
	}
	emps := make(map[int64]domain.Employee, len(s.Employees))
	for _, e := range s.Employees {
		emps[e.ID] = e
	}

	var verr domain.ValidationErrors
	jobs := make([]domain.Job, 0, len(s.Jobs))
	for i, sj := range s.Jobs {
		field := fmt.Sprintf("jobs[%d]", i)
		j := domain.Job{
			ID:        sj.ID,
			Date:      sj.Date,
			Time:      sj.Time,
			Title:     sj.Title,
			Status:    sj.Status,
			Customer:  sj.Customer,
			Phone:     sj.Phone,
			Address:   sj.Address,
			JobType:   sj.JobType,
			Avatar:    sj.Avatar,
			Employees: []domain.Employee{},
		}
		if j.Date.IsZero() {
			verr.Add(field+".date", "is required")
		}
		if !j.Status.Valid() {
			verr.Add(field+".status", "must be one of %v", domain.Statuses)
		}
		if !j.JobType.Valid() {
			verr.Add(field+".job_type", "must be one of %v", domain.JobTypes)
		}
		if sj.TeamLeader != 0 {
			tl, ok := leaders[sj.TeamLeader]
			if !ok {
				verr.Add(field+".team_leader", "references unknown team leader %d", sj.TeamLeader)
			} else {
				j.TeamLeader = &tl
			}
		}
		for _, id := range sj.Employees {
			e, ok := emps[id]
			if !ok {
				verr.Add(field+".employees", "references unknown employee %d", id)
				continue
			}
			j.Employees = append(j.Employees, e)
		}
		jobs = append(jobs, j)
	}
	if err := verr.Err(); err != nil {
		return nil, nil, nil, err
	}
	return s.TeamLeaders, s.Employees, jobs, nil
}
