package audit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	coreaudit "github.com/kilianp07/apireg/core/audit"
	"github.com/kilianp07/apireg/core/events"
)

// Path is the route the handler is mounted on.
const Path = "/api/audit/records"

// NewRecordsHandler exposes audit records via GET /api/audit/records.
// Requests must include an Authorization header with "Bearer <token>" when token is non-empty.
// Supported filters: start, end (RFC3339), api, kind and failed.
func NewRecordsHandler(store coreaudit.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		q, err := parseQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []coreaudit.Record{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

func parseQuery(r *http.Request) (coreaudit.Query, error) {
	v := r.URL.Query()
	q := coreaudit.Query{API: v.Get("api")}
	var err error
	if s := v.Get("start"); s != "" {
		if q.Start, err = time.Parse(time.RFC3339, s); err != nil {
			return q, err
		}
	}
	if s := v.Get("end"); s != "" {
		if q.End, err = time.Parse(time.RFC3339, s); err != nil {
			return q, err
		}
	}
	switch k := events.Kind(v.Get("kind")); k {
	case "", events.KindRegistration, events.KindResolution:
		q.Kind = k
	default:
		return q, fmt.Errorf("invalid kind %s", k)
	}
	if s := v.Get("failed"); s != "" {
		failed, err := strconv.ParseBool(s)
		if err != nil {
			return q, err
		}
		if failed {
			ok := false
			q.OK = &ok
		}
	}
	return q, nil
}
