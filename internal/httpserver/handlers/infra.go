package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/sources/seed"
)

const infraPingTimeout = 2 * time.Second

type componentStatus struct {
	OK      bool         `json:"ok"`
	Enabled bool         `json:"enabled"`
	Impact  string       `json:"impact,omitempty"`
	Error   string       `json:"error,omitempty"`
	Seed    *seed.Report `json:"last_import,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of every backend the service depends on.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"postgres": checkPostgres(r.Context(), d),
			"redis":    checkRedis(r.Context(), d),
			"seed":     checkSeed(d),
		}

		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

// determineMode is "critical" without a database, "degraded" when an
// enabled optional component is failing and "operational" otherwise.
func determineMode(components map[string]componentStatus) string {
	if pg, ok := components["postgres"]; ok && !pg.OK {
		return "critical"
	}
	for name, c := range components {
		if name != "postgres" && c.Enabled && !c.OK {
			return "degraded"
		}
	}
	return "operational"
}

func checkPostgres(ctx context.Context, d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(ctx, infraPingTimeout)
	defer cancel()

	if err := d.Bookmarks.Ping(ctx); err != nil {
		return componentStatus{OK: false, Enabled: true, Impact: "bookmark-api-unavailable", Error: err.Error()}
	}
	return componentStatus{OK: true, Enabled: true}
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.Usage == nil {
		return componentStatus{OK: true, Enabled: false, Impact: "usage-tracking-disabled"}
	}

	ctx, cancel := context.WithTimeout(ctx, infraPingTimeout)
	defer cancel()

	if err := d.Usage.Ping(ctx); err != nil {
		return componentStatus{OK: false, Enabled: true, Impact: "usage-counters-not-recorded", Error: err.Error()}
	}
	return componentStatus{OK: true, Enabled: true}
}

func checkSeed(d deps.Deps) componentStatus {
	if d.Seed == nil {
		return componentStatus{OK: true, Enabled: false}
	}
	report := d.Seed.Report()
	return componentStatus{
		OK:      report.Error == "",
		Enabled: true,
		Error:   report.Error,
		Seed:    &report,
	}
}
