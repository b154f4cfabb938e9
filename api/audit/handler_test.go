package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreaudit "github.com/kilianp07/apireg/core/audit"
	"github.com/kilianp07/apireg/core/events"
)

type memStore struct{ recs []coreaudit.Record }

func (m *memStore) Append(_ context.Context, r coreaudit.Record) error {
	m.recs = append(m.recs, r)
	return nil
}

func (m *memStore) Query(_ context.Context, q coreaudit.Query) ([]coreaudit.Record, error) {
	var res []coreaudit.Record
	for _, r := range m.recs {
		if q.Matches(r) {
			res = append(res, r)
		}
	}
	return res, nil
}

func (m *memStore) Close() error { return nil }

func get(t *testing.T, h http.Handler, url, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRecordsHandler_AuthAndFilters(t *testing.T) {
	now := time.Now().UTC()
	store := &memStore{recs: []coreaudit.Record{
		{ID: "1", Timestamp: now, Kind: events.KindRegistration, API: "core.config", OK: true, Scope: "static"},
		{ID: "2", Timestamp: now, Kind: events.KindRegistration, API: "core.alert", OK: false, Scope: "default"},
		{ID: "3", Timestamp: now, Kind: events.KindResolution, API: "core.alert", OK: true},
	}}
	h := NewRecordsHandler(store, "tok")

	assert.Equal(t, http.StatusUnauthorized, get(t, h, Path, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, h, Path, "nope").Code)

	rr := get(t, h, Path+"?api=core.alert&failed=true", "tok")
	require.Equal(t, http.StatusOK, rr.Code)
	var recs []coreaudit.Record
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "2", recs[0].ID)

	rr = get(t, h, Path+"?kind=resolution", "tok")
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "3", recs[0].ID)

	rr = get(t, h, Path+"?start="+now.Add(time.Hour).Format(time.RFC3339), "tok")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestRecordsHandler_BadRequest(t *testing.T) {
	h := NewRecordsHandler(&memStore{}, "")
	assert.Equal(t, http.StatusBadRequest, get(t, h, Path+"?kind=other", "").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, Path+"?start=yesterday", "").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, Path+"?failed=maybe", "").Code)

	req := httptest.NewRequest(http.MethodPost, Path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
