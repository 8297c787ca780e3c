package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	applog "github.com/janisto/biodata-discovery/internal/platform/logging"
)

// Check probes one backing dependency.
type Check func(ctx context.Context) error

// Response is the payload for the health endpoint.
type Response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Handler returns a plain HTTP handler that runs checks and reports
// 200 "healthy" or 503 "unhealthy" with the failing dependency names.
func Handler(checks map[string]Check) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := Response{Status: "healthy"}
		status := http.StatusOK
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				applog.LogError(ctx, "health check failed", err)
				if resp.Checks == nil {
					resp.Checks = make(map[string]string)
				}
				resp.Checks[name] = "unavailable"
				resp.Status = "unhealthy"
				status = http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
