package client

import (
	"context"
	"fmt"
	"storefront/pkg/model"
)

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(httpClient *HttpClient) *BookingClient {
	return &BookingClient{
		httpClient: httpClient,
	}
}

func (c *BookingClient) Create(ctx context.Context, req model.BookingRequest) (*model.BookingConfirmation, error) {
	resp, err := c.httpClient.POST(ctx, "/bookings", req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, newAPIError(resp)
	}

	var booking model.BookingConfirmation
	if err := resp.DecodeJSON(&booking); err != nil {
		return nil, fmt.Errorf("could not decode booking json:\n%s\n%w", resp.ToString(), err)
	}
	return &booking, nil
}
