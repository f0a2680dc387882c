package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"jobcal-engine/internal/domain"
)

const jobsSheet = "Jobs"

var xlsxHeader = []any{"ID", "Date", "Time", "Title", "Customer", "Phone", "Address", "Status", "Job Type", "Team Leader", "Crew"}

// WriteXLSX writes jobs as a one-sheet workbook in the order given.
func WriteXLSX(w io.Writer, jobs []domain.Job) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), jobsSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(jobsSheet, "A1", &xlsxHeader); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(xlsxHeader), 1)
	if err := f.SetCellStyle(jobsSheet, "A1", last, bold); err != nil {
		return err
	}

	for i, j := range jobs {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{
			j.ID,
			j.Date.String(),
			j.Time,
			j.Title,
			j.Customer,
			j.Phone,
			j.Address,
			j.Status.Label(),
			j.JobType.Label(),
			leaderName(j),
			crew(j),
		}
		if err := f.SetSheetRow(jobsSheet, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(jobsSheet, "B", "B", 12)
	_ = f.SetColWidth(jobsSheet, "D", "G", 28)
	_ = f.SetPanes(jobsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	_, err = f.WriteTo(w)
	return err
}

func leaderName(j domain.Job) string {
	if j.TeamLeader == nil {
		return ""
	}
	return j.TeamLeader.Name
}

func crew(j domain.Job) string {
	names := make([]string, len(j.Employees))
	for i, e := range j.Employees {
		names[i] = e.Name
	}
	return strings.Join(names, ", ")
}
