package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"jobcal-engine/internal/domain"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads exactly one JSON value and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("invalid JSON: empty body")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON: trailing data")
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// queryList accepts both repeated keys and comma separated values.
func queryList(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func parseFilters(q url.Values) (domain.Filters, error) {
	var f domain.Filters
	for _, raw := range queryList(q, "team_leader") {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return domain.Filters{}, fmt.Errorf("invalid team_leader %q", raw)
		}
		f.TeamLeaders = append(f.TeamLeaders, id)
	}
	for _, raw := range queryList(q, "job_type") {
		jt := domain.JobType(raw)
		if !jt.Valid() {
			return domain.Filters{}, fmt.Errorf("invalid job_type %q", raw)
		}
		f.JobTypes = append(f.JobTypes, jt)
	}
	return f, nil
}

// queryDate parses key, or returns fallback when it is absent.
func queryDate(q url.Values, key string, fallback domain.Date) (domain.Date, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return fallback, nil
	}
	return domain.ParseDate(raw)
}
