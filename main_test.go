package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usermgmt/internal/config"
)

func TestBuildAppWithMemoryStore(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "memory")
	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	log, _ := test.NewNullLogger()
	app, cleanup, err := buildApp(cfg, log)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "memory", health["database"])

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"email":"a@b.co","name":"A"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestBuildAppWithSQLite(t *testing.T) {
	v := viper.New()
	v.Set("DATABASE_URL", "file:buildapp?mode=memory&cache=shared")
	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	log, _ := test.NewNullLogger()
	app, cleanup, err := buildApp(cfg, log)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "up", health["database"])
}

func TestBuildAppRejectsUnknownDriver(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, _, err := buildApp(&config.Config{DBDriver: "mongo", Port: "0"}, log)
	assert.Error(t, err)
}
