package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"food-ordering/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		BaseURL:       "http://localhost:8080",
		SessionSecret: "test-secret",
		MenuCacheTTL:  time.Minute,
	}
}

func TestHealthCheck(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	application := newApp(testConfig(), db, nil, nil)
	assert.Nil(t, application.popularity)

	rr := httptest.NewRecorder()
	application.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "food-app", body["service"])
}

func TestHomeServesMenuFromCacheAfterFirstRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	// Only one menu query: the second request is served from Redis.
	mock.ExpectQuery("LEFT JOIN order_lines").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "net_price", "image", "created_at", "count"}).
			AddRow(1, "Pierogi", "Ruskie", "25.00", "", time.Now(), 2))

	application := newApp(testConfig(), db, rdb, nil)
	require.NotNil(t, application.popularity)

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		application.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Pierogi")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderFormRequiresLogin(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	application := newApp(testConfig(), db, nil, nil)

	rr := httptest.NewRecorder()
	application.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/order/", nil))

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), "/login/")
}
