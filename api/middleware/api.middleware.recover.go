package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/itsatony/soilsense/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// RecoverJSON turns a panic in the wrapped handler into a JSON failure
// response, so a polling device always gets a body it can parse.
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				nuts.L.Errorf("[API] Panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(models.IngestResponse{Success: false, Error: "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
