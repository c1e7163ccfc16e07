package models

import "time"

// Geolocation is a latitude/longitude pair attached to a pickup or dropoff.
// It is only present when the CRM supplied both coordinates.
type Geolocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Transfer is one passenger booking as surfaced to a partner operator.
type Transfer struct {
	ID             string       `json:"id"`
	BookingRef     string       `json:"booking_ref"`
	SourceRecordID string       `json:"source_record_id,omitempty"`
	Date           string       `json:"date"`
	PickupTime     string       `json:"pickup_time"`
	Origin         string       `json:"origin"`
	Destination    string       `json:"destination"`
	PickupAddress  string       `json:"pickup_address"`
	DropoffAddress string       `json:"dropoff_address"`
	PassengerName  string       `json:"passenger_name"`
	PassengerCount int          `json:"passenger_count"`
	PassengerPhone string       `json:"passenger_phone"`
	FlightNumber   string       `json:"flight_number,omitempty"`
	VehicleType    string       `json:"vehicle_type"`
	Status         Status       `json:"status"`
	Notes          string       `json:"notes"`
	Price          string       `json:"price"`
	CreatedAt      string       `json:"created_at"`
	PickupGeo      *Geolocation `json:"pickup_geo,omitempty"`
	DropoffGeo     *Geolocation `json:"dropoff_geo,omitempty"`
}

// DateRange is an inclusive pickup-date window. A nil bound leaves that side
// open.
type DateRange struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// Complete reports whether both bounds are set. Only a complete range is
// forwarded to the CRM; one-sided ranges are enforced client-side.
func (r DateRange) Complete() bool {
	return r.Start != nil && r.End != nil
}

// FilterState is the ephemeral filter selection of one portal session.
type FilterState struct {
	Search string    `json:"search"`
	Status string    `json:"status"`
	Range  DateRange `json:"date_range"`
}
