package client

import (
	"context"
	"fmt"
	"net/url"
	"storefront/pkg/model"
)

type ExperienceClient struct {
	httpClient *HttpClient
}

func NewExperienceClient(httpClient *HttpClient) *ExperienceClient {
	return &ExperienceClient{
		httpClient: httpClient,
	}
}

func (c *ExperienceClient) List(ctx context.Context) ([]model.ExperiencePayload, error) {
	resp, err := c.httpClient.GET(ctx, "/experiences")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, newAPIError(resp)
	}

	var experiences []model.ExperiencePayload
	if err := resp.DecodeJSON(&experiences); err != nil {
		return nil, fmt.Errorf("could not decode experience list:\n%s\n%w", resp.ToString(), err)
	}
	return experiences, nil
}

func (c *ExperienceClient) GetByID(ctx context.Context, id string) (*model.ExperienceDetailPayload, error) {
	resp, err := c.httpClient.GET(ctx, "/experiences/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, newAPIError(resp)
	}

	var detail model.ExperienceDetailPayload
	if err := resp.DecodeJSON(&detail); err != nil {
		return nil, fmt.Errorf("could not decode experience detail:\n%s\n%w", resp.ToString(), err)
	}
	return &detail, nil
}
