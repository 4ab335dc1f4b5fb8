package service

import (
	"storefront/pkg/model"
	"storefront/pkg/sanitizer"
	"strings"
	"time"
)

const (
	DefaultLocation = "Unknown Location"
	DefaultDuration = "Flexible"
	DefaultRating   = 4.0

	PlaceholderImage = "https://via.placeholder.com/1000x600?text=Experience+Image"

	SlotDateLayout = "Jan 2, 2006"
)

var slotDateInputs = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02",
}

// NormalizeExperience turns an API payload into the record every view
// renders. Missing fields get their display defaults here and nowhere else.
func NormalizeExperience(p model.ExperiencePayload, slots []model.SlotPayload) model.Experience {
	exp := model.Experience{
		ID:          strings.TrimSpace(p.ID),
		Title:       sanitizer.NormalizeName(p.Name),
		Description: strings.TrimSpace(p.Description),
		Images:      sanitizer.NormalizeImages(p.Images),
		Price:       p.Price,
		Location:    sanitizer.NameOrDefault(p.Location, DefaultLocation),
		Duration:    sanitizer.NameOrDefault(p.Duration, DefaultDuration),
		Rating:      sanitizer.ClampRating(p.Rating),
	}

	if exp.Rating == 0 {
		exp.Rating = DefaultRating
	}
	if len(exp.Images) == 0 {
		exp.Images = []string{PlaceholderImage}
	}

	if len(slots) > 0 {
		exp.Slots = make([]model.Slot, 0, len(slots))
		for _, s := range slots {
			exp.Slots = append(exp.Slots, NormalizeSlot(s))
		}
	}

	return exp
}

func NormalizeSlot(p model.SlotPayload) model.Slot {
	rawDate := strings.TrimSpace(p.Date)
	slotTime := strings.TrimSpace(p.Time)

	id := strings.TrimSpace(p.ID)
	if id == "" {
		id = strings.TrimSpace(rawDate + " " + slotTime)
	}

	return model.Slot{
		ID:        id,
		Date:      FormatSlotDate(rawDate),
		RawDate:   rawDate,
		Time:      slotTime,
		Available: p.Status == model.SlotStatusAvailable,
	}
}

// FormatSlotDate renders an ISO date as "Jan 2, 2006". Unparseable input is
// returned unchanged.
func FormatSlotDate(raw string) string {
	for _, layout := range slotDateInputs {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(SlotDateLayout)
		}
	}
	return raw
}
