package entity

// Hotel is read-only from the booking flow's perspective: the orchestrator
// only ever consults MaxGuests and Price.
type Hotel struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	City      string  `json:"city,omitempty"`
	Category  string  `json:"category,omitempty"`
	MaxGuests int     `json:"maxGuests"`
	Price     float64 `json:"price"`
	Status    string  `json:"status,omitempty"`
	CreatedAt string  `json:"createdAt,omitempty"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
}

// HotelFilter narrows a hotel listing. Zero values mean "no filter".
// MaxGuests is applied client-side: the store cannot express ">= on a
// document field while sorting on another" in one query.
type HotelFilter struct {
	City      string
	Category  string
	MinPrice  string
	MaxPrice  string
	MaxGuests int
}

// Room belongs to a hotel. Listed available-first, cheapest-first.
type Room struct {
	ID       string       `json:"id"`
	HotelID  string       `json:"hotelId"`
	Name     string       `json:"name,omitempty"`
	Price    float64      `json:"price"`
	Capacity RoomCapacity `json:"capacity"`
	Status   string       `json:"status,omitempty"`
}

type RoomCapacity struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

// User is the slice of the /users document the reservation join needs.
type User struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}
