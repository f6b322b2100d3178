package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/starstrike/internal/config"
	"github.com/tomz197/starstrike/internal/highscore"
	"github.com/tomz197/starstrike/internal/loop"
)

func TestMux(t *testing.T) {
	settings := &config.Settings{SSHDisplayHost: "play.example.org"}
	srv := httptest.NewServer(newMux(settings, highscore.NewMemoryStore(), loop.NewHub(), nil))
	defer srv.Close()

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/", http.StatusOK, "ssh -t play.example.org"},
		{"/health", http.StatusOK, `{"status":"ok"}`},
		{"/api/highscores", http.StatusOK, "[]"},
		{"/missing", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), tt.body)
		})
	}
}
