package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordChat(t *testing.T) {
	before := testutil.ToFloat64(chatRequests.WithLabelValues(ChatUnavailable))
	RecordChat(ChatUnavailable)
	assert.Equal(t, before+1, testutil.ToFloat64(chatRequests.WithLabelValues(ChatUnavailable)))
}

func TestRecordSignalRefresh(t *testing.T) {
	RecordSignalRefresh(RefreshOK, 7)
	assert.Equal(t, float64(7), testutil.ToFloat64(signalsCurrent))

	RecordSignalRefresh(RefreshError, 0)
	assert.Equal(t, float64(7), testutil.ToFloat64(signalsCurrent))
}

func TestMiddlewareRecordsErrorStatus(t *testing.T) {
	e := echo.New()
	e.Use(Middleware(nil))
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "nope")
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/boom", "418"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/boom", "418")))
}

func TestMiddlewarePassesErrorOutward(t *testing.T) {
	e := echo.New()
	boom := echo.NewHTTPError(http.StatusUnauthorized, "no token")

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Middleware(nil)(func(c echo.Context) error { return boom })(c)

	assert.Equal(t, boom, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.True(t, c.Response().Committed)
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordChat(ChatRelayed)

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `cryptem_chat_requests_total{outcome="relayed"}`)
}
