package entity

// GuestCount splits the party into adults and children. Capacity checks use
// the total.
type GuestCount struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

func (g GuestCount) Total() int {
	return g.Adults + g.Children
}

// Reservation mirrors the document stored in the /reservations collection.
// Timestamps stay ISO strings end to end — the store is the source of truth
// and we never do arithmetic on them server-side.
type Reservation struct {
	ID                 string     `json:"id"`
	HotelID            string     `json:"hotelId"`
	UserID             string     `json:"userId"`
	HotelName          string     `json:"hotelName,omitempty"`
	CheckIn            string     `json:"checkIn"`
	CheckOut           string     `json:"checkOut"`
	Guests             GuestCount `json:"guests"`
	MaxGuests          int        `json:"maxGuests,omitempty"`
	Price              float64    `json:"price,omitempty"`
	TotalPrice         float64    `json:"totalPrice,omitempty"`
	Nights             int        `json:"nights,omitempty"`
	Status             Status     `json:"status"`
	CancellationReason string     `json:"cancellationReason,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	CreatedAt          string     `json:"createdAt,omitempty"`
	UpdatedAt          string     `json:"updatedAt,omitempty"`
}

// ReservationDetail is a reservation joined with its user and hotel, as
// served to staff dashboards.
type ReservationDetail struct {
	Reservation
	User  UserSummary  `json:"user"`
	Hotel HotelSummary `json:"hotel"`
}

type UserSummary struct {
	ID          string `json:"id,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

type HotelSummary struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	City string `json:"city,omitempty"`
}
