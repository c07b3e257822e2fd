// Package cabin prices and rates cabin layouts. All functions are pure.
package cabin

import (
	"math"

	"airline_sim/internal/models"
)

type SeatType struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	CostPerSeat int     `json:"cost_per_seat"`
	Comfort     float64 `json:"comfort"`
	Color       string  `json:"color"`
}

// DefaultSeatType is used for generated layouts and for rows whose seat
// type is unknown.
const DefaultSeatType = "SLIM"

// seats assumed for a row that does not say how many it has
const defaultRowSeats = 6

var seatTypes = []SeatType{
	{Code: "SLIM", Name: "Slimline HD", CostPerSeat: 500, Comfort: 1.0, Color: "#e0e0e0"},
	{Code: "RECL", Name: "Recliner Shorthaul", CostPerSeat: 1500, Comfort: 1.5, Color: "#b3d9ff"},
	{Code: "LIE140", Name: "Lie Flat 140°", CostPerSeat: 3500, Comfort: 2.5, Color: "#ffd9b3"},
	{Code: "LIE180", Name: "Full Lie Flat", CostPerSeat: 6000, Comfort: 3.5, Color: "#ffb3d9"},
	{Code: "BUSINESS", Name: "Business Class", CostPerSeat: 2500, Comfort: 2.0, Color: "#d9b3ff"},
	{Code: "PREMIUM", Name: "Premium Economy", CostPerSeat: 1000, Comfort: 1.3, Color: "#b3ffd9"},
}

func SeatTypes() []SeatType {
	out := make([]SeatType, len(seatTypes))
	copy(out, seatTypes)
	return out
}

// LookupSeatType returns the seat type for code, falling back to the
// default type.
func LookupSeatType(code string) SeatType {
	for _, st := range seatTypes {
		if st.Code == code {
			return st
		}
	}
	return seatTypes[0]
}

// KnownSeatType reports whether code is in the seat table.
func KnownSeatType(code string) bool {
	for _, st := range seatTypes {
		if st.Code == code {
			return true
		}
	}
	return false
}

func rowSeats(r models.CabinRow) int {
	if r.Seats == 0 {
		return defaultRowSeats
	}
	return r.Seats
}

// Cost is the price of fitting the layout.
func Cost(layout []models.CabinRow) int {
	total := 0
	for _, r := range layout {
		total += rowSeats(r) * LookupSeatType(r.SeatType).CostPerSeat
	}
	return total
}

// TotalSeats is the number of seats in the layout.
func TotalSeats(layout []models.CabinRow) int {
	total := 0
	for _, r := range layout {
		total += r.Seats
	}
	return total
}

// Comfort is the seat-count weighted average comfort of the layout, or 1.0
// for an empty layout.
func Comfort(layout []models.CabinRow) float64 {
	seats, weighted := 0, 0.0
	for _, r := range layout {
		seats += r.Seats
		weighted += float64(r.Seats) * LookupSeatType(r.SeatType).Comfort
	}
	if seats == 0 {
		return 1.0
	}
	return weighted / float64(seats)
}

// DefaultLayout fills rows of min(maxSeatsPerRow, capacity) default seats,
// at most maxRows rows; the last row may be partial.
func DefaultLayout(capacity, maxSeatsPerRow, maxRows int) []models.CabinRow {
	if capacity <= 0 || maxSeatsPerRow <= 0 || maxRows <= 0 {
		return []models.CabinRow{}
	}
	perRow := min(maxSeatsPerRow, capacity)
	rows := max(1, min(maxRows, int(math.Ceil(float64(capacity)/float64(perRow)))))

	layout := make([]models.CabinRow, 0, rows)
	remaining := capacity
	for row := 1; row <= rows && remaining > 0; row++ {
		n := min(perRow, remaining)
		layout = append(layout, models.CabinRow{Row: row, SeatType: DefaultSeatType, Seats: n})
		remaining -= n
	}
	return layout
}
