package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountersInflightAndPathFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.POST("/trips/:id/badge-checks/:family", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"newly_awarded": []string{}})
	})
	r.GET("/statusonly", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	const route = "/trips/:id/badge-checks/:family"
	baseOK := testutil.ToFloat64(httpReqs.WithLabelValues("POST", route, "200"))
	base404 := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/does-not-exist", "404"))

	for _, trip := range []string{"t1", "t2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/trips/"+trip+"/badge-checks/dare", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("POST check -> %d", w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/does-not-exist", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /does-not-exist -> %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/statusonly", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("GET /statusonly -> %d", w.Code)
	}

	// Both trips collapse onto the route label.
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("POST", route, "200")); got != baseOK+2 {
		t.Fatalf("counter route 200 = %v; want %v", got, baseOK+2)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/does-not-exist", "404")); got != base404+1 {
		t.Fatalf("counter 404 fallback = %v; want %v", got, base404+1)
	}
	if inFlight := testutil.ToFloat64(httpInflight); inFlight != 0 {
		t.Fatalf("httpInflight = %v; want 0", inFlight)
	}
}
