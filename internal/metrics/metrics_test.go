package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareLabelsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/chat/messages/:matchId", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/chat/messages/:matchId", "204"))

	for _, id := range []string{"1", "2", "3"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/chat/messages/"+id, nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/chat/messages/:matchId", "204"))
	assert.Equal(t, float64(3), after-before)
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(swipes.WithLabelValues("like"))
	RecordSwipe("like")
	assert.Equal(t, float64(1), testutil.ToFloat64(swipes.WithLabelValues("like"))-before)

	beforeOK := testutil.ToFloat64(payments.WithLabelValues("verified"))
	RecordPayment(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(payments.WithLabelValues("verified"))-beforeOK)
}

func TestHandlerExposesRegistry(t *testing.T) {
	RecordMatch()
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "elite_connect_explore_matches_total"))
}
