package telemetry

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"storefront/internal/logging"
)

func TestMiddlewareCountsByRoutePattern(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/products/:id/comment", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/products/:id/comment", "200")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/"+id+"/comment", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	require.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestObserveBackendCall(t *testing.T) {
	ok := backendCallsTotal.WithLabelValues("products", "list", "200")
	failed := backendCallsTotal.WithLabelValues("products", "list", "error")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	ObserveBackendCall("products", "list", 200, time.Millisecond)
	ObserveBackendCall("products", "list", 0, time.Millisecond)

	require.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	require.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
}

func TestMiddlewareKeepsHandlerErrorForRequestLog(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(logging.RequestLogger(logging.NewWithWriter(&buf, "info")))
	e.Use(Middleware())
	e.GET("/fail", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadGateway, "backend gone")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, buf.String(), `"error":"code=502, message=backend gone"`)
}
