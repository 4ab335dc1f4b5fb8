package client

import (
	"context"
	"storefront/pkg/model"
	"time"
)

// Client is the storefront's single collaborator: the Booking API.
type Client struct {
	ExperienceClient *ExperienceClient
	PromoClient      *PromoClient
	BookingClient    *BookingClient
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	httpClient := NewHttpClient(baseURL, timeout)
	return &Client{
		ExperienceClient: NewExperienceClient(httpClient),
		PromoClient:      NewPromoClient(httpClient),
		BookingClient:    NewBookingClient(httpClient),
	}
}

func (c *Client) ListExperiences(ctx context.Context) ([]model.ExperiencePayload, error) {
	return c.ExperienceClient.List(ctx)
}

func (c *Client) GetExperience(ctx context.Context, id string) (*model.ExperienceDetailPayload, error) {
	return c.ExperienceClient.GetByID(ctx, id)
}

func (c *Client) ValidatePromo(ctx context.Context, req model.PromoRequest) (*model.PromoResult, error) {
	return c.PromoClient.Validate(ctx, req)
}

func (c *Client) CreateBooking(ctx context.Context, req model.BookingRequest) (*model.BookingConfirmation, error) {
	return c.BookingClient.Create(ctx, req)
}
