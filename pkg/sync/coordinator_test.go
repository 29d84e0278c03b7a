package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"member-access-be/internal/pkg/logger"
	"member-access-be/pkg/provider/community"
	"member-access-be/pkg/provider/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProviderServer(t *testing.T, succeed bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		if succeed {
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "member not found"})
	}))
}

func newCoordinator(baseURL string) *Coordinator {
	return NewCoordinator(
		community.NewClient(baseURL, "test-token"),
		course.NewClient(baseURL, "test-token"),
		5*time.Second,
		logger.NewNopLogger(),
	)
}

func TestCoordinatorSuccess(t *testing.T) {
	srv := newProviderServer(t, true)
	defer srv.Close()

	c := newCoordinator(srv.URL)
	ctx := context.Background()

	assert.True(t, c.GrantCommunity(ctx, "tg-1001", "club-main", 30, "admin_grant").Success)
	assert.True(t, c.RevokeCommunity(ctx, "tg-1001", "club-main", "refund").Success)
	assert.True(t, c.EnrollCourse(ctx, "order-1", "member@example.com", "offer-monthly", "").Success)
	assert.True(t, c.CancelCourse(ctx, "order-1", "refund").Success)
}

func TestCoordinatorRejectionBecomesResult(t *testing.T) {
	srv := newProviderServer(t, false)
	defer srv.Close()

	c := newCoordinator(srv.URL)

	res := c.GrantCommunity(context.Background(), "tg-1001", "club-main", 30, "admin_grant")
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "member not found")
}

func TestCoordinatorTransportFailureBecomesResult(t *testing.T) {
	srv := newProviderServer(t, true)
	srv.Close()

	c := newCoordinator(srv.URL)

	// A dead provider yields a recorded failure, never a panic or error
	// escaping to the caller.
	res := c.EnrollCourse(context.Background(), "order-1", "member@example.com", "offer-monthly", "")
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestCoordinatorHonorsTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer slow.Close()

	c := NewCoordinator(
		community.NewClient(slow.URL, "test-token"),
		course.NewClient(slow.URL, "test-token"),
		50*time.Millisecond,
		logger.NewNopLogger(),
	)

	res := c.GrantCommunity(context.Background(), "tg-1001", "club-main", 30, "admin_grant")
	assert.False(t, res.Success)
}
