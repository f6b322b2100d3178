package highscore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, store Store) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	NewHandler(store, nil).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHandler_SubmitAndList(t *testing.T) {
	store := NewMemoryStore()
	srv := newTestServer(t, store)

	body := `{"name":"maverick","score":2500,"level":3,"difficulty":"hard"}`
	resp, err := http.Post(srv.URL+"/api/highscores", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "MAVERICK", created.Name)
	assert.NotEqual(t, uuid.Nil, created.ID)

	resp, err = http.Get(srv.URL + "/api/highscores")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var list []Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, 2500, list[0].Score)
}

func TestHandler_EmptyListIsArray(t *testing.T) {
	srv := newTestServer(t, NewMemoryStore())

	resp, err := http.Get(srv.URL + "/api/highscores")
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.JSONEq(t, `[]`, string(raw))
}

func TestHandler_SubmitValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name":`},
		{"unknown field", `{"name":"a","score":1,"level":1,"difficulty":"easy","cheat":true}`},
		{"unknown difficulty", `{"name":"a","score":1,"level":1,"difficulty":"nightmare"}`},
		{"negative score", `{"name":"a","score":-5,"level":1,"difficulty":"easy"}`},
		{"zero level", `{"name":"a","score":5,"level":0,"difficulty":"easy"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, NewMemoryStore())
			resp, err := http.Post(srv.URL+"/api/highscores", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestHandler_Limit(t *testing.T) {
	store := NewMemoryStore()
	seed(t, store, 1, 2, 3, 4)
	srv := newTestServer(t, store)

	resp, err := http.Get(srv.URL + "/api/highscores?limit=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	var list []Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list, 2)
	assert.Equal(t, 4, list[0].Score)

	resp2, err := http.Get(srv.URL + "/api/highscores?limit=zero")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestHandler_Get(t *testing.T) {
	store := NewMemoryStore()
	recs := seed(t, store, 321)
	srv := newTestServer(t, store)

	resp, err := http.Get(srv.URL + "/api/highscores/" + recs[0].ID.String())
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	missing, err := http.Get(srv.URL + "/api/highscores/" + uuid.NewString())
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	bad, err := http.Get(srv.URL + "/api/highscores/not-a-uuid")
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

type failingStore struct{ MemoryStore }

func (*failingStore) Top(context.Context, int) ([]Record, error) {
	return nil, errors.New("connection refused")
}

func TestHandler_StoreFailure(t *testing.T) {
	srv := newTestServer(t, &failingStore{})

	resp, err := http.Get(srv.URL + "/api/highscores")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
