package service

import (
	"context"
	catalogerrors "storefront/internal/catalog/errors"
	"storefront/pkg/client"
	"storefront/pkg/logger"
	"storefront/pkg/model"
	"strings"
)

// ExperienceAPI is the part of the Booking API the catalog reads from.
type ExperienceAPI interface {
	ListExperiences(ctx context.Context) ([]model.ExperiencePayload, error)
	GetExperience(ctx context.Context, id string) (*model.ExperienceDetailPayload, error)
}

type CatalogService interface {
	List(ctx context.Context) []model.Experience
	Get(ctx context.Context, id string) (*model.Experience, error)
}

type catalogService struct {
	api ExperienceAPI
	log *logger.Logger
}

func NewCatalogService(api ExperienceAPI, log *logger.Logger) CatalogService {
	return &catalogService{
		api: api,
		log: log,
	}
}

// List fetches the listing once. A failed fetch is logged and shows as an
// empty listing.
func (s *catalogService) List(ctx context.Context) []model.Experience {
	payloads, err := s.api.ListExperiences(ctx)
	if err != nil {
		s.log.Error("Failed to fetch experiences",
			"error", err,
		)
		return []model.Experience{}
	}

	experiences := make([]model.Experience, 0, len(payloads))
	for _, p := range payloads {
		if strings.TrimSpace(p.ID) == "" {
			s.log.Warn("Skipping experience without id", "name", p.Name)
			continue
		}
		experiences = append(experiences, NormalizeExperience(p, nil))
	}

	return experiences
}

// Get fetches one experience with its slots. Unknown ids and failed
// fetches both return ErrExperienceNotFound.
func (s *catalogService) Get(ctx context.Context, id string) (*model.Experience, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, catalogerrors.ErrExperienceNotFound
	}

	detail, err := s.api.GetExperience(ctx, id)
	if err != nil {
		if client.IsNotFound(err) {
			s.log.Info("Experience not found", "id", id)
		} else {
			s.log.Error("Failed to fetch experience details",
				"id", id,
				"error", err,
			)
		}
		return nil, catalogerrors.ErrExperienceNotFound
	}

	if detail == nil || detail.Experience == nil {
		s.log.Info("Experience not found", "id", id)
		return nil, catalogerrors.ErrExperienceNotFound
	}

	exp := NormalizeExperience(*detail.Experience, detail.AvailableSlots)
	if exp.ID == "" {
		exp.ID = id
	}

	return &exp, nil
}
