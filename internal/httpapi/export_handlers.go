package httpapi

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"jobcal-engine/internal/export"
)

// ExportHandler serves the filtered, sorted job list as a calendar feed
// or a spreadsheet. Query parameters match GET /api/jobs.
type ExportHandler struct {
	Deps Deps
	Log  zerolog.Logger
}

func (h ExportHandler) ICS(w http.ResponseWriter, r *http.Request) {
	opts, err := listOpts(r)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	jobs := h.Deps.Store.List(opts)

	var buf bytes.Buffer
	err = export.WriteICS(&buf, jobs, export.ICSOptions{
		CalendarName: "Jobs",
		Location:     h.Deps.location(),
		Now:          h.Deps.now(),
	})
	if err != nil {
		writeStoreError(w, r, h.Log, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="jobs.ics"`)
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = buf.WriteTo(w)
}

func (h ExportHandler) XLSX(w http.ResponseWriter, r *http.Request) {
	opts, err := listOpts(r)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	jobs := h.Deps.Store.List(opts)

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, jobs); err != nil {
		writeStoreError(w, r, h.Log, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="jobs.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}
