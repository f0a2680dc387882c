package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a cleaned copy of cfg together with the
// problems found in it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.App.Host = strings.TrimSpace(out.App.Host)
	out.Calendar.Timezone = strings.TrimSpace(out.Calendar.Timezone)
	out.Calendar.SeedPath = strings.TrimSpace(out.Calendar.SeedPath)
	out.HTTP.CORSOrigins = trimList(out.HTTP.CORSOrigins)
	out.Log.Level = strings.ToLower(strings.TrimSpace(out.Log.Level))
	if out.Log.Level == "" {
		out.Log.Level = "info"
	}
	if out.Metrics.Path == "" {
		out.Metrics.Path = "/metrics"
	}

	if err := Validate(out); err != nil {
		for _, line := range strings.Split(err.Error(), "\n- ")[1:] {
			res.addErr("%s", line)
		}
	}

	// ---- Warnings ----

	if out.App.Host != "127.0.0.1" && out.App.Host != "localhost" && out.App.Host != "::1" {
		res.addWarn("app.host %q exposes the engine beyond this machine.", out.App.Host)
	}
	if out.Calendar.Timezone == "" {
		res.addWarn("calendar.timezone is empty; the machine's local zone decides \"today\".")
	}
	if out.HTTP.RequestsPerMinute == 0 {
		res.addWarn("http.requests_per_minute is 0; per-client rate limiting is off.")
	}
	if out.HTTP.MutationsPerSecond == 0 {
		res.addWarn("http.mutations_per_second is 0; write rate limiting is off.")
	}
	if len(out.HTTP.CORSOrigins) == 0 {
		res.addWarn("http.cors_origins is empty; browser UIs on another origin cannot call the engine.")
	}
	for _, o := range out.HTTP.CORSOrigins {
		if o == "*" {
			res.addWarn("http.cors_origins contains \"*\"; any site can drive the engine.")
		}
	}
	if out.Events.HeartbeatSeconds > 0 && out.Events.HeartbeatSeconds < 5 {
		res.addWarn("events.heartbeat_seconds is very low (%d).", out.Events.HeartbeatSeconds)
	}

	return out, res
}
