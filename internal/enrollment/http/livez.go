package http

import (
	"net/http"
	"time"

	"github.com/colegiolink/enrollment/pkg/httpx"
)

// LivezHandler is the liveness probe. It answers 200 whenever the process is
// up, with uptime and version for operators.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
