package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
)

type healthzResponse struct {
	Status        string          `json:"status"`
	UptimeSeconds float64         `json:"uptime_seconds"`
	Version       string          `json:"version,omitempty"`
	Commit        string          `json:"commit,omitempty"`
	BuildDate     string          `json:"build_date,omitempty"`
	GoVersion     string          `json:"go_version,omitempty"`
	Features      healthzFeatures `json:"features"`
}

type healthzFeatures struct {
	UsageTracking bool `json:"usage_tracking"`
	SeedImport    bool `json:"seed_import"`
	Metrics       bool `json:"metrics"`
}

// Healthz reports that the process is up and which optional features were
// enabled at startup. It never touches a backend; /readyz does.
func Healthz(d deps.Deps) http.HandlerFunc {
	features := healthzFeatures{
		UsageTracking: d.Usage != nil,
		SeedImport:    d.Seed != nil,
		Metrics:       d.Metrics != nil,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, healthzResponse{
			Status:        "ok",
			UptimeSeconds: time.Since(d.StartTime).Seconds(),
			Version:       d.Version,
			Commit:        d.Commit,
			BuildDate:     d.BuildDate,
			GoVersion:     d.GoVersion,
			Features:      features,
		})
	}
}
