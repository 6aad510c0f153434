package http_test

import (
	"context"
	"testing"
	"time"

	dochttp "github.com/fwojciec/doctext/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("first request per host passes immediately", func(t *testing.T) {
		t.Parallel()

		l := dochttp.NewHostLimiter(1)

		start := time.Now()
		require.NoError(t, l.Wait(context.Background(), "a.example.com"))
		require.NoError(t, l.Wait(context.Background(), "b.example.com"))

		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("second request to the same host is delayed", func(t *testing.T) {
		t.Parallel()

		l := dochttp.NewHostLimiter(10) // 100ms between requests

		require.NoError(t, l.Wait(context.Background(), "example.com"))

		start := time.Now()
		require.NoError(t, l.Wait(context.Background(), "example.com"))

		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("canceled context aborts the wait", func(t *testing.T) {
		t.Parallel()

		l := dochttp.NewHostLimiter(0.01)

		require.NoError(t, l.Wait(context.Background(), "example.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		assert.Error(t, l.Wait(ctx, "example.com"))
	})
}
