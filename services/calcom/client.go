// File: services/calcom/client.go
package calcom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"calagent/models"

	"go.uber.org/zap"
)

// Client is the typed surface of the Cal.com v1 API consumed by the agent.
// Every operation is one authenticated HTTP call; availability is never
// cached because it can change between a check and the booking attempt.
type Client interface {
	ListEventTypes(ctx context.Context) ([]models.EventType, error)
	GetAvailability(ctx context.Context, eventTypeID int, dateFrom, dateTo, timezone string) ([]models.AvailabilitySlot, error)
	CreateBooking(ctx context.Context, req BookingRequest) (*models.Booking, error)
	ListBookings(ctx context.Context, attendeeEmail string) ([]models.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) error
	RescheduleBooking(ctx context.Context, bookingID, newStart string) (*models.Booking, error)
}

const (
	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
	requestTimeout = 15 * time.Second
)

// HTTPClient implements Client against a Cal.com v1 endpoint.
type HTTPClient struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	logger  *zap.Logger
}

func NewHTTPClient(baseURL, apiKey string, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
}

func (c *HTTPClient) ListEventTypes(ctx context.Context) ([]models.EventType, error) {
	var resp eventTypesResponse
	if err := c.call(ctx, http.MethodGet, "/event-types", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.EventTypes, nil
}

func (c *HTTPClient) GetAvailability(ctx context.Context, eventTypeID int, dateFrom, dateTo, timezone string) ([]models.AvailabilitySlot, error) {
	query := url.Values{}
	query.Set("eventTypeId", strconv.Itoa(eventTypeID))
	query.Set("dateFrom", dateFrom)
	query.Set("dateTo", dateTo)
	if timezone != "" {
		query.Set("timeZone", timezone)
	}

	var resp availabilityResponse
	if err := c.call(ctx, http.MethodGet, "/availability", query, nil, &resp); err != nil {
		return nil, err
	}

	tz := resp.TimeZone
	if tz == "" {
		tz = timezone
	}
	slots := make([]models.AvailabilitySlot, 0, len(resp.DateRanges))
	for _, r := range resp.DateRanges {
		slots = append(slots, models.AvailabilitySlot{Start: r.Start, End: r.End, Timezone: tz})
	}
	return slots, nil
}

func (c *HTTPClient) CreateBooking(ctx context.Context, req BookingRequest) (*models.Booking, error) {
	if req.Language == "" {
		req.Language = "en"
	}
	if req.Metadata == nil {
		req.Metadata = map[string]string{}
	}
	var booking models.Booking
	if err := c.call(ctx, http.MethodPost, "/bookings", nil, req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *HTTPClient) ListBookings(ctx context.Context, attendeeEmail string) ([]models.Booking, error) {
	query := url.Values{}
	if attendeeEmail != "" {
		query.Set("attendeeEmail", attendeeEmail)
	}
	var resp bookingsResponse
	if err := c.call(ctx, http.MethodGet, "/bookings", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

func (c *HTTPClient) CancelBooking(ctx context.Context, bookingID string) error {
	path := fmt.Sprintf("/bookings/%s/cancel", url.PathEscape(bookingID))
	return c.call(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *HTTPClient) RescheduleBooking(ctx context.Context, bookingID, newStart string) (*models.Booking, error) {
	path := fmt.Sprintf("/bookings/%s", url.PathEscape(bookingID))
	var booking models.Booking
	if err := c.call(ctx, http.MethodPatch, path, nil, rescheduleRequest{Start: newStart}, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// call performs one API operation, retrying transient failures with
// exponential backoff up to maxAttempts. User-intent errors surface on the
// first attempt unchanged.
func (c *HTTPClient) call(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return &APIError{Kind: KindValidation, Message: fmt.Sprintf("encode request: %v", err)}
		}
	}

	backoff := initialBackoff
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := c.doOnce(ctx, method, path, query, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err

		apiErr, ok := err.(*APIError)
		if !ok || !apiErr.Transient() || attempt == maxAttempts {
			return err
		}

		c.logger.Warn("Cal.com call failed, retrying",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return &APIError{Kind: KindRemoteServer, Message: ctx.Err().Error()}
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return lastErr
}

func (c *HTTPClient) doOnce(ctx context.Context, method, path string, query url.Values, payload []byte, out interface{}) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("apiKey", c.apiKey)
	endpoint := c.baseURL + path + "?" + query.Encode()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &APIError{Kind: KindValidation, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		// A timed-out round trip is reported as a transient remote failure.
		if ctx.Err() != nil {
			return &APIError{Kind: KindRemoteServer, Message: ctx.Err().Error()}
		}
		if urlErr, ok := err.(*url.Error); ok && urlErr.Timeout() {
			return &APIError{Kind: KindRemoteServer, Message: err.Error()}
		}
		return &APIError{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Kind: KindNetwork, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody apiErrorBody
		_ = json.Unmarshal(raw, &errBody)
		code := errBody.Error
		if code == "" {
			code = errBody.Message
		}
		message := errBody.Message
		if message == "" {
			message = string(raw)
		}
		return translateStatus(resp.StatusCode, code, message)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &APIError{Kind: KindRemoteServer, Status: resp.StatusCode,
			Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}
