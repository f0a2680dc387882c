package httpapi

import (
	"net/http"
	"net/url"
	"time"

	"jobcal-engine/internal/calendar"
	"jobcal-engine/internal/domain"
	"jobcal-engine/internal/store"
)

type CalendarHandler struct {
	Store *store.Store
}

type calendarView struct {
	calendar.Grid
	Weekdays      []string `json:"weekdays"`
	ActiveFilters int      `json:"activeFilters"`
}

func (h CalendarHandler) view(mode calendar.Mode, ref domain.Date, f domain.Filters) calendarView {
	jobs := h.Store.List(store.ListJobsOpts{Filters: f})
	grid := calendar.Build(mode, ref, h.Store.Today(), jobs)

	return calendarView{Grid: grid, Weekdays: weekdayNames(calendar.Weekdays(mode)), ActiveFilters: f.ActiveCount()}
}

func parseCalendarQuery(q url.Values, today domain.Date) (calendar.Mode, domain.Date, domain.Filters, error) {
	mode, err := calendar.ParseMode(q.Get("mode"))
	if err != nil {
		return "", domain.Date{}, domain.Filters{}, err
	}
	ref, err := queryDate(q, "date", today)
	if err != nil {
		return "", domain.Date{}, domain.Filters{}, err
	}
	f, err := parseFilters(q)
	if err != nil {
		return "", domain.Date{}, domain.Filters{}, err
	}
	return mode, ref, f, nil
}

// Grid renders the month, week or day containing date (default today).
func (h CalendarHandler) Grid(w http.ResponseWriter, r *http.Request) {
	mode, ref, f, err := parseCalendarQuery(r.URL.Query(), h.Store.Today())
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, h.view(mode, ref, f))
}

// Navigate steps the reference date and returns the grid for the new one.
func (h CalendarHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	today := h.Store.Today()
	mode, ref, f, err := parseCalendarQuery(q, today)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	dir, err := calendar.ParseDirection(q.Get("dir"))
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, h.view(mode, calendar.Navigate(mode, ref, dir, today), f))
}

func (h CalendarHandler) Day(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	today := h.Store.Today()
	d, err := queryDate(q, "date", today)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	f, err := parseFilters(q)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	jobs := h.Store.List(store.ListJobsOpts{Filters: f})
	WriteJSON(w, http.StatusOK, calendar.Day(d, today, jobs))
}

// weekdayNames gives the column headers, "Mon", "Tue", ...
func weekdayNames(days []time.Weekday) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.String()[:3]
	}
	return out
}
