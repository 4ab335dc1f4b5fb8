package model

// ExperiencePayload is an experience as the Booking API returns it.
type ExperiencePayload struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Price       int64    `json:"price"`
	Location    string   `json:"location,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
}

type SlotPayload struct {
	ID     string `json:"_id,omitempty"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Status string `json:"status"`
}

// ExperienceDetailPayload is the body of GET /experiences/{id}.
type ExperienceDetailPayload struct {
	Experience     *ExperiencePayload `json:"experience"`
	AvailableSlots []SlotPayload      `json:"availableSlots"`
}

const SlotStatusAvailable = "Available"

// Experience is the fully populated record the views render. It is built
// once at the fetch boundary and never mutated afterwards.
type Experience struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Price       int64    `json:"price"`
	Location    string   `json:"location"`
	Duration    string   `json:"duration"`
	Rating      float64  `json:"rating"`
	Slots       []Slot   `json:"slots,omitempty"`
}

func (e Experience) CoverImage() string {
	if len(e.Images) == 0 {
		return ""
	}
	return e.Images[0]
}

type Slot struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	RawDate   string `json:"raw_date"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}
