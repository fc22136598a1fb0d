package calcom

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, "secret-key", zap.NewNop()), srv
}

func TestCreateBookingSuccess(t *testing.T) {
	var gotBody BookingRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bookings", r.URL.Path)
		assert.Equal(t, "secret-key", r.URL.Query().Get("apiKey"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":42,"uid":"abc123","startTime":"2025-05-20T14:00:00-07:00","endTime":"2025-05-20T14:30:00-07:00"}`))
	})

	booking, err := client.CreateBooking(context.Background(), BookingRequest{
		EventTypeID: 7,
		Start:       "2025-05-20T14:00:00-07:00",
		Responses:   BookingResponses{Name: "Ada", Email: "ada@example.com"},
		TimeZone:    "America/Los_Angeles",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc123", booking.UID)
	assert.Equal(t, 7, gotBody.EventTypeID)
	assert.Equal(t, "en", gotBody.Language)
}

func TestCreateBookingNoAvailableSlot(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"no_available_users_found_error"}`))
	})

	_, err := client.CreateBooking(context.Background(), BookingRequest{EventTypeID: 1})
	require.Error(t, err)
	assert.True(t, IsNoAvailableSlot(err))
}

func TestErrorTranslation(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   ErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"invalid apiKey"}`, KindAuth},
		{"forbidden", http.StatusForbidden, `{"message":"nope"}`, KindAuth},
		{"not found", http.StatusNotFound, `{"message":"booking not found"}`, KindNotFound},
		{"validation", http.StatusBadRequest, `{"message":"eventTypeId is required"}`, KindValidation},
		{"server error", http.StatusInternalServerError, `{"message":"boom"}`, KindRemoteServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := client.ListEventTypes(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}
}

func TestTransientErrorsAreRetried(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"event_types":[{"id":1,"title":"30 Min Meeting","length":30}]}`))
	})

	types, err := client.ListEventTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestUserIntentErrorsAreNotRetried(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"no_available_users_found_error"}`))
	})

	_, err := client.CreateBooking(context.Background(), BookingRequest{EventTypeID: 1})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRetriesAreBounded(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.ListEventTypes(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindRemoteServer, KindOf(err))
	assert.Equal(t, int32(maxAttempts), atomic.LoadInt32(&calls))
}

func TestGetAvailabilityMapsDateRanges(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("eventTypeId"))
		assert.Equal(t, "2025-05-20", r.URL.Query().Get("dateFrom"))
		_, _ = w.Write([]byte(`{"busy":[],"timeZone":"America/Los_Angeles","dateRanges":[{"start":"2025-05-20T16:00:00Z","end":"2025-05-20T17:00:00Z"}]}`))
	})

	slots, err := client.GetAvailability(context.Background(), 3, "2025-05-20", "2025-05-20", "America/Los_Angeles")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "2025-05-20T16:00:00Z", slots[0].Start)
	assert.Equal(t, "America/Los_Angeles", slots[0].Timezone)
}

func TestCancelBooking(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/bookings/abc123/cancel", r.URL.Path)
		_, _ = w.Write([]byte(`{"message":"Booking successfully cancelled."}`))
	})
	require.NoError(t, client.CancelBooking(context.Background(), "abc123"))
}

func TestRescheduleBooking(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/bookings/abc123", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2025-05-21T10:00:00-07:00", body["start"])
		_, _ = w.Write([]byte(`{"id":42,"uid":"abc123","startTime":"2025-05-21T10:00:00-07:00","endTime":"2025-05-21T10:30:00-07:00"}`))
	})

	booking, err := client.RescheduleBooking(context.Background(), "abc123", "2025-05-21T10:00:00-07:00")
	require.NoError(t, err)
	assert.Equal(t, "abc123", booking.UID)
}

func TestNetworkErrorKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewHTTPClient(srv.URL, "k", zap.NewNop())
	srv.Close()

	_, err := client.ListEventTypes(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
}
