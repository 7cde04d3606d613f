package tracing

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMiddlewareRecordsServerSpan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer, logs := newTestTracer(t, "api")

	router := gin.New()
	router.Use(HTTPMiddleware(tracer))
	router.GET("/orders/:id", func(c *gin.Context) {
		span := SpanFromContext(c.Request.Context())
		require.NotNil(t, span)

		child := span.NewChild("lookup-order")
		child.Start()
		child.Finish(nil)

		c.Status(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/orders/42", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)

	require.Eventually(t, func() bool {
		return len(recordedSpans(t, logs)) == 2
	}, 3*time.Second, 10*time.Millisecond)

	records := recordedSpans(t, logs)
	var server, client *Record
	for i := range records {
		if records[i].ParentID == 0 {
			server = &records[i]
		} else {
			client = &records[i]
		}
	}

	require.NotNil(t, server)
	require.NotNil(t, client)
	assert.Equal(t, "/orders/:id", server.Name)
	assert.Equal(t, "lookup-order", client.Name)
	assert.Equal(t, server.TraceID, client.TraceID)
	assert.Equal(t, server.ID, client.ParentID)
}

func TestSpanFromContextMissing(t *testing.T) {
	assert.Nil(t, SpanFromContext(t.Context()))
}
