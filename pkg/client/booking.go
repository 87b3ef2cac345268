package client

import (
	"context"
	"fmt"
	"net/http"

	"hotelbooking/pkg/middleware"
	"hotelbooking/pkg/model"
)

const bookingPath = "/booking"

type BookingClient struct {
	httpClient *HttpClient
}

// NewBookingClient returns a client for the booking endpoints. The token is
// sent as a bearer credential on every request.
func NewBookingClient(baseUrl string, token string) *BookingClient {
	httpClient := NewHttpClient(baseUrl)
	httpClient.Token = token
	return &BookingClient{httpClient: httpClient}
}

func (c *BookingClient) Get(ctx context.Context) (*Response, error) {
	return c.httpClient.GET(ctx, bookingPath)
}

func (c *BookingClient) Create(ctx context.Context, roomID int64) (*Response, error) {
	return c.httpClient.POST(ctx, bookingPath, model.BookingRequest{RoomID: roomID})
}

// CreateIdempotent sends key as the Idempotency-Key header. Retrying with the
// same key replays the first successful response.
func (c *BookingClient) CreateIdempotent(ctx context.Context, roomID int64, key string) (*Response, error) {
	return c.httpClient.POSTWithHeaders(ctx, bookingPath, model.BookingRequest{RoomID: roomID}, map[string]string{
		middleware.IdempotencyKeyHeader: key,
	})
}

func (c *BookingClient) Change(ctx context.Context, roomID int64) (*Response, error) {
	return c.httpClient.PUT(ctx, bookingPath, model.BookingRequest{RoomID: roomID})
}

func (c *BookingClient) CreateRaw(ctx context.Context, rawBody []byte) (*Response, error) {
	return c.httpClient.POSTRaw(ctx, bookingPath, rawBody)
}

func (c *BookingClient) DecodeBooking(resp *Response) (*model.BookingResponse, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected response: %s", resp.ToString())
	}

	var booking model.BookingResponse
	if err := resp.DecodeJSON(&booking); err != nil {
		return nil, fmt.Errorf("could not decode booking json:\n%+v\n%s", resp.ToString(), err)
	}
	return &booking, nil
}

func (c *BookingClient) DecodeBookingID(resp *Response) (int64, error) {
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected response: %s", resp.ToString())
	}

	var body model.BookingIDResponse
	if err := resp.DecodeJSON(&body); err != nil {
		return 0, fmt.Errorf("could not decode booking id json:\n%+v\n%s", resp.ToString(), err)
	}
	return body.BookingID, nil
}
