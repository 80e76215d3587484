package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-booking/internal/config"
)

func cacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		Prefix:       "restaurant:cache",
		VaryHeaders:  []string{echo.HeaderXRequestedWith},
		MaxBodyBytes: 1 << 20,
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"menu":[]}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `{"menu":[]}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}

func TestCacheKeySeparatesModes(t *testing.T) {
	rc := NewResponseCache(cacheConfig(), nil)
	e := echo.New()

	page := httptest.NewRequest(http.MethodGet, "/menu", nil)
	ajax := httptest.NewRequest(http.MethodGet, "/menu", nil)
	ajax.Header.Set(echo.HeaderXRequestedWith, XMLHTTPRequest)

	k1 := rc.key("menu", e.NewContext(page, httptest.NewRecorder()))
	k2 := rc.key("menu", e.NewContext(ajax, httptest.NewRecorder()))
	assert.NotEqual(t, k1, k2)
	assert.True(t, strings.HasPrefix(k1, "restaurant:cache:menu:"))
}

func TestCacheServesHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rc := NewResponseCache(cacheConfig(), db)
	e := echo.New()
	calls := 0
	e.GET("/menu", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"menu": []string{}})
	}, rc.Middleware("menu", nil))

	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	req.Header.Set(echo.HeaderXRequestedWith, XMLHTTPRequest)
	key := rc.key("menu", e.NewContext(req, httptest.NewRecorder()))

	payload, err := encodePayload(http.StatusOK, http.Header{"Content-Type": {"application/json"}}, []byte(`{"menu":["cached"]}`))
	require.NoError(t, err)
	mock.ExpectGet(key).SetVal(string(payload))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"menu":["cached"]}`, rec.Body.String())
	assert.Zero(t, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheMissCallsHandler(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rc := NewResponseCache(cacheConfig(), db)
	e := echo.New()
	e.GET("/menu", func(c echo.Context) error {
		return c.String(http.StatusOK, "fresh")
	}, rc.Middleware("menu", nil))

	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	mock.ExpectGet(rc.key("menu", e.NewContext(req, httptest.NewRecorder()))).RedisNil()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, "fresh", rec.Body.String())
}

func TestCacheSkipperBypasses(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rc := NewResponseCache(cacheConfig(), db)
	e := echo.New()
	e.GET("/menu", func(c echo.Context) error {
		return c.String(http.StatusOK, "page")
	}, rc.Middleware("menu", func(echo.Context) bool { return true }))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menu", nil))
	assert.Empty(t, rec.Header().Get("X-Cache"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCachePurge(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rc := NewResponseCache(cacheConfig(), db)

	mock.ExpectScan(0, "restaurant:cache:menu:*", 100).SetVal([]string{"restaurant:cache:menu:a", "restaurant:cache:menu:b"}, 0)
	mock.ExpectDel("restaurant:cache:menu:a", "restaurant:cache:menu:b").SetVal(2)

	require.NoError(t, rc.Purge(context.Background(), "menu"))
	require.NoError(t, mock.ExpectationsWereMet())

	require.NoError(t, NewResponseCache(cacheConfig(), nil).Purge(context.Background(), "menu"))
}

func TestRateLimitLocalFallback(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            time.Hour,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
	e := echo.New()
	e.POST("/book", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RateLimit(cfg, nil))

	post := func(ajax bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/book", nil)
		if ajax {
			req.Header.Set(echo.HeaderXRequestedWith, XMLHTTPRequest)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, post(false).Code)
	assert.Equal(t, http.StatusOK, post(false).Code)

	rec := post(true)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"status":"error"`)

	assert.Equal(t, http.StatusTooManyRequests, post(false).Code)
}

func TestCSRF(t *testing.T) {
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	e := echo.New()
	e.POST("/menu", ok, CSRF(nil, false))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/menu", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "disabled without a key")

	e = echo.New()
	e.Use(CSRF([]byte("0123456789abcdef0123456789abcdef"), false))
	e.GET("/menu", ok)
	e.POST("/menu", ok)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menu", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/menu", nil)
	req.Header.Set(echo.HeaderXRequestedWith, XMLHTTPRequest)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"error"`)
}

func TestIsProgrammatic(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, IsProgrammatic(e.NewContext(req, httptest.NewRecorder())))
	req.Header.Set("X-Requested-With", "XMLHttpRequest") // as sent by booking.js
	assert.True(t, IsProgrammatic(e.NewContext(req, httptest.NewRecorder())))
}
