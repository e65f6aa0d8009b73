package logctx

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromGinPrefersRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	reqLogger := zap.New(core).Sugar().With("trace_id", "abc123")

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Set("logger", reqLogger)

	FromGin(c, zap.NewNop().Sugar()).Infow("hello")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, "abc123", logs.All()[0].ContextMap()["trace_id"])
}

func TestFromGinFallsBackToContextValues(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core).Sugar()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest("GET", "/", nil)
	c.Request = req.WithContext(context.WithValue(req.Context(), "user_id", "7"))

	FromGin(c, base).Infow("hello")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, "7", logs.All()[0].ContextMap()["user_id"])
}

func TestFromGinNilContext(t *testing.T) {
	base := zap.NewNop().Sugar()
	require.Same(t, base, FromGin(nil, base))
}
