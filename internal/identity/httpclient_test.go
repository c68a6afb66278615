package identity

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBreakerClient(max int) *rateLimitedHTTPClient {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	cfg := DefaultHTTPClientConfig()
	cfg.CircuitBreakerMax = max
	cfg.MaxRetries = 0
	cfg.Timeout = time.Second
	return newRateLimitedHTTPClient(cfg, logger)
}

func TestCircuitBreakerOpensAfterMaxFailures(t *testing.T) {
	client := testBreakerClient(3)
	defer client.Close()

	cause := assert.AnError
	client.recordFailure(cause)
	client.recordFailure(cause)
	open, _ := client.breakerOpen()
	assert.False(t, open, "breaker must stay closed below the threshold")

	client.recordFailure(cause)
	open, lastErr := client.breakerOpen()
	assert.True(t, open)
	assert.Equal(t, cause, lastErr)

	// An open breaker rejects before touching the network.
	req, err := http.NewRequest(http.MethodGet, "http://127.0.0.1:0/v1/health", nil)
	require.NoError(t, err)
	_, err = client.Do(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
}

func TestCircuitBreakerResetsOnSuccess(t *testing.T) {
	client := testBreakerClient(2)
	defer client.Close()

	client.recordFailure(assert.AnError)
	client.recordFailure(assert.AnError)
	open, _ := client.breakerOpen()
	require.True(t, open)

	client.recordSuccess()
	open, _ = client.breakerOpen()
	assert.False(t, open)
}

func TestCircuitBreakerConcurrentBookkeeping(t *testing.T) {
	client := testBreakerClient(5)
	defer client.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if n%2 == 0 {
					client.recordFailure(assert.AnError)
				} else {
					client.recordSuccess()
				}
				client.breakerOpen()
			}
		}(i)
	}
	wg.Wait()

	// Serialized tail: a clean success run must leave the breaker closed.
	client.recordSuccess()
	open, _ := client.breakerOpen()
	assert.False(t, open)
}
