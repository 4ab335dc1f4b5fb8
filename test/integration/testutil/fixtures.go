package testutil

import "storefront/pkg/model"

// Kayaking has one open and one sold out slot.
func Kayaking() ExperienceFixture {
	return ExperienceFixture{
		Experience: model.ExperiencePayload{
			ID:          "exp_kayak",
			Name:        "  Sunset   Kayaking ",
			Description: "Paddle through the backwaters at dusk.",
			Images:      []string{"https://img.example.com/k1.jpg", "javascript:alert(1)", "https://img.example.com/k2.jpg"},
			Price:       2000,
			Location:    "Alleppey",
			Duration:    "2 hours",
			Rating:      4.6,
		},
		Slots: []model.SlotPayload{
			{ID: "slot_open", Date: "2025-11-02T00:00:00.000Z", Time: "09:00", Status: model.SlotStatusAvailable},
			{ID: "slot_full", Date: "2025-11-02T00:00:00.000Z", Time: "11:00", Status: "Booked"},
		},
	}
}

// Bare has none of the optional fields set.
func Bare() ExperienceFixture {
	return ExperienceFixture{
		Experience: model.ExperiencePayload{ID: "exp_bare", Name: "Heritage Walk", Price: 500},
	}
}
