package client

import (
	"context"
	"fmt"
	"math"
	"storefront/pkg/model"
)

type PromoClient struct {
	httpClient *HttpClient
}

func NewPromoClient(httpClient *HttpClient) *PromoClient {
	return &PromoClient{
		httpClient: httpClient,
	}
}

// Validate asks the API to price req.Code against req.CurrentPrice. Any
// non-2xx answer is returned as *APIError.
func (c *PromoClient) Validate(ctx context.Context, req model.PromoRequest) (*model.PromoResult, error) {
	resp, err := c.httpClient.POST(ctx, "/promo/validate", req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, newAPIError(resp)
	}

	// percentage promos can come back fractional
	var payload struct {
		Discount   float64 `json:"discount"`
		FinalPrice float64 `json:"finalPrice"`
		Message    string  `json:"message"`
	}
	if err := resp.DecodeJSON(&payload); err != nil {
		return nil, fmt.Errorf("could not decode promo response:\n%s\n%w", resp.ToString(), err)
	}

	return &model.PromoResult{
		Code:       req.Code,
		Discount:   int64(math.Round(payload.Discount)),
		FinalPrice: int64(math.Round(payload.FinalPrice)),
		Message:    payload.Message,
	}, nil
}
