package identity

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/regatta-hub/internal/models"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Config{
		BaseURL:  server.URL,
		APIKey:   "test-key",
		CacheTTL: time.Minute,
		HTTP:     DefaultHTTPClientConfig(),
	}, nil)
	t.Cleanup(func() { _ = client.Close() })

	return client, server
}

func TestGetProfile(t *testing.T) {
	id := uuid.New()
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/profiles/"+id.String(), r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		fmt.Fprintf(w, `{"id":%q,"display_name":"Avery Cole","gender":"female","date_of_birth":"1990-03-12"}`, id)
	})

	participant, err := client.GetProfile(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, participant.ID)
	assert.Equal(t, "Avery Cole", participant.DisplayName)
	assert.Equal(t, models.ParticipantFemale, participant.Gender)
	require.NotNil(t, participant.DateOfBirth)
	assert.Equal(t, 1990, participant.DateOfBirth.Year())
}

func TestGetProfileCaches(t *testing.T) {
	id := uuid.New()
	var calls atomic.Int32
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprintf(w, `{"id":%q,"display_name":"Avery Cole","gender":"male"}`, id)
	})

	ctx := context.Background()
	_, err := client.GetProfile(ctx, id)
	require.NoError(t, err)
	_, err = client.GetProfile(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load(), "second fetch must come from cache")

	client.Invalidate(id)
	_, err = client.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetProfileNotFound(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetProfileBadDateOfBirth(t *testing.T) {
	id := uuid.New()
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id":%q,"display_name":"Avery Cole","gender":"male","date_of_birth":"12/03/1990"}`, id)
	})

	participant, err := client.GetProfile(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, participant.DateOfBirth, "garbled date of birth downgrades to unset")
}
