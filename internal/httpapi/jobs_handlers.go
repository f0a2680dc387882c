package httpapi

import (
	"net/http"

	"github.com/rs/zerolog"

	"jobcal-engine/internal/domain"
	"jobcal-engine/internal/events"
	"jobcal-engine/internal/store"
)

type JobsHandler struct {
	Store *store.Store
	Hub   *events.Hub
	Log   zerolog.Logger
}

type jobList struct {
	Jobs          []domain.Job          `json:"jobs"`
	Count         int                   `json:"count"`
	ByStatus      map[domain.Status]int `json:"byStatus"` // table footer totals
	View          store.View            `json:"view"`
	Sort          store.SortState       `json:"sort"`
	ActiveFilters int                   `json:"activeFilters"`
}

// countByStatus has a key for every status, zero or not.
func countByStatus(jobs []domain.Job) map[domain.Status]int {
	out := make(map[domain.Status]int, len(domain.Statuses))
	for _, s := range domain.Statuses {
		out[s] = 0
	}
	for _, j := range jobs {
		out[j.Status]++
	}
	return out
}

// listOpts reads view, filters and sort from the query. toggle=<field>
// applies a header click on top of sort/order.
func listOpts(r *http.Request) (store.ListJobsOpts, error) {
	q := r.URL.Query()
	view, err := store.ParseView(q.Get("view"))
	if err != nil {
		return store.ListJobsOpts{}, err
	}
	filters, err := parseFilters(q)
	if err != nil {
		return store.ListJobsOpts{}, err
	}
	sort, err := store.ParseSort(q.Get("sort"), q.Get("order"))
	if err != nil {
		return store.ListJobsOpts{}, err
	}
	if t := q.Get("toggle"); t != "" {
		if _, err := store.ParseSort(t, ""); err != nil {
			return store.ListJobsOpts{}, err
		}
		sort = sort.Toggle(store.SortField(t))
	}
	return store.ListJobsOpts{View: view, Filters: filters, Sort: &sort}, nil
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	opts, err := listOpts(r)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	jobs := h.Store.List(opts)
	WriteJSON(w, http.StatusOK, jobList{
		Jobs:          jobs,
		Count:         len(jobs),
		ByStatus:      countByStatus(jobs),
		View:          opts.View,
		Sort:          *opts.Sort,
		ActiveFilters: opts.Filters.ActiveCount(),
	})
}

func (h JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	job, err := h.Store.Get(id)
	if err != nil {
		writeStoreError(w, r, h.Log, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// NewDefaults returns the prefilled new-job form.
func (h JobsHandler) NewDefaults(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.Store.NewJobDefaults())
}

func (h JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in store.JobInput
	if err := decodeJSON(w, r, &in); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	job, err := h.Store.Create(in)
	if err != nil {
		writeStoreError(w, r, h.Log, err)
		return
	}
	reqID := RequestIDFrom(r.Context())
	h.Log.Debug().Str("request_id", reqID).Int64("id", job.ID).Msg("job created")
	h.Hub.Emit(reqID, events.TypeJobCreated, job)
	WriteJSON(w, http.StatusCreated, job)
}

func (h JobsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	var in store.JobInput
	if err := decodeJSON(w, r, &in); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	job, err := h.Store.Update(id, in)
	if err != nil {
		writeStoreError(w, r, h.Log, err)
		return
	}
	reqID := RequestIDFrom(r.Context())
	h.Log.Debug().Str("request_id", reqID).Int64("id", id).Msg("job updated")
	h.Hub.Emit(reqID, events.TypeJobUpdated, job)
	WriteJSON(w, http.StatusOK, job)
}

type moveRequest struct {
	Date domain.Date `json:"date"`
}

func (h JobsHandler) Move(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	job, err := h.Store.Move(id, req.Date)
	if err != nil {
		writeStoreError(w, r, h.Log, err)
		return
	}
	reqID := RequestIDFrom(r.Context())
	h.Log.Debug().Str("request_id", reqID).Int64("id", id).Stringer("date", job.Date).Msg("job moved")
	h.Hub.Emit(reqID, events.TypeJobMoved, job)
	WriteJSON(w, http.StatusOK, job)
}

func (h JobsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	cleared, err := h.Store.Delete(id)
	if err != nil {
		writeStoreError(w, r, h.Log, err)
		return
	}
	reqID := RequestIDFrom(r.Context())
	h.Log.Debug().Str("request_id", reqID).Int64("id", id).
		Bool("selection_cleared", cleared.Selection).
		Bool("drag_cleared", cleared.Drag).
		Msg("job deleted")
	h.Hub.Emit(reqID, events.TypeJobDeleted, map[string]any{"id": id})
	if cleared.Selection {
		h.Hub.Emit(reqID, events.TypeSelectionChanged, jobState{})
	}
	if cleared.Drag {
		h.Hub.Emit(reqID, events.TypeDragChanged, jobState{})
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}

func (h JobsHandler) ToggleEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	empID, err := pathID(r, "employeeID")
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	job, err := h.Store.ToggleEmployee(id, empID)
	if err != nil {
		writeStoreError(w, r, h.Log, err)
		return
	}
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeJobUpdated, job)
	WriteJSON(w, http.StatusOK, job)
}
