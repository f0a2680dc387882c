package httpapi

import (
	"net/http"

	"github.com/rs/zerolog"

	"jobcal-engine/internal/domain"
	"jobcal-engine/internal/events"
	"jobcal-engine/internal/store"
)

// StateHandler serves the UI state that lives next to the jobs: the open
// detail view and the drag session.
type StateHandler struct {
	Store *store.Store
	Hub   *events.Hub
	Log   zerolog.Logger
}

type jobRef struct {
	JobID int64 `json:"job_id"`
}

type jobState struct {
	Active bool        `json:"active"`
	Job    *domain.Job `json:"job"`
}

func stateOf(j domain.Job, ok bool) jobState {
	if !ok {
		return jobState{}
	}
	return jobState{Active: true, Job: &j}
}

func (h StateHandler) Selection(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, stateOf(h.Store.Selected()))
}

func (h StateHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req jobRef
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	job, err := h.Store.Select(req.JobID)
	if err != nil {
		writeStoreError(w, r, h.Log, err)
		return
	}
	st := stateOf(job, true)
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeSelectionChanged, st)
	WriteJSON(w, http.StatusOK, st)
}

func (h StateHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	h.Store.ClearSelection()
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeSelectionChanged, jobState{})
	WriteJSON(w, http.StatusOK, jobState{})
}

func (h StateHandler) Drag(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, stateOf(h.Store.Dragging()))
}

func (h StateHandler) StartDrag(w http.ResponseWriter, r *http.Request) {
	var req jobRef
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	job, err := h.Store.StartDrag(req.JobID)
	if err != nil {
		writeStoreError(w, r, h.Log, err)
		return
	}
	st := stateOf(job, true)
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeDragChanged, st)
	WriteJSON(w, http.StatusOK, st)
}

type dropResult struct {
	Job   domain.Job `json:"job"`
	Moved bool       `json:"moved"`
}

// Drop ends the drag on a date. Dropping on the job's own date is a no-op.
func (h StateHandler) Drop(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	job, moved, err := h.Store.Drop(req.Date)
	if err != nil {
		writeStoreError(w, r, h.Log, err)
		return
	}
	reqID := RequestIDFrom(r.Context())
	h.Hub.Emit(reqID, events.TypeDragChanged, jobState{})
	if moved {
		h.Log.Debug().Str("request_id", reqID).Int64("id", job.ID).Stringer("date", job.Date).Msg("job dropped")
		h.Hub.Emit(reqID, events.TypeJobMoved, job)
	}
	WriteJSON(w, http.StatusOK, dropResult{Job: job, Moved: moved})
}

func (h StateHandler) CancelDrag(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.CancelDrag(); err != nil {
		writeStoreError(w, r, h.Log, err)
		return
	}
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeDragChanged, jobState{})
	WriteJSON(w, http.StatusOK, jobState{})
}

type ReferenceHandler struct {
	Store *store.Store
}

func (h ReferenceHandler) TeamLeaders(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.Store.TeamLeaders())
}

func (h ReferenceHandler) Employees(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.Store.Employees())
}

// Options lists the status and job type choices with their labels.
func (h ReferenceHandler) Options(w http.ResponseWriter, r *http.Request) {
	type option struct {
		Value string `json:"value"`
		Label string `json:"label"`
	}
	var out struct {
		Statuses []option `json:"statuses"`
		JobTypes []option `json:"jobTypes"`
	}
	for _, s := range domain.Statuses {
		out.Statuses = append(out.Statuses, option{string(s), s.Label()})
	}
	for _, t := range domain.JobTypes {
		out.JobTypes = append(out.JobTypes, option{string(t), t.Label()})
	}
	WriteJSON(w, http.StatusOK, out)
}
