// Package travel computes variable travel costs from a zone rate table.
package travel

import (
	"github.com/shopspring/decimal"

	"quote-engine/internal/errors"
)

// Zone is a travel zone rate table entry
type Zone struct {
	// Code identifies the zone
	Code string `json:"code"`

	// Name is the display name
	Name string `json:"name"`

	// Airfare is the round-trip airfare estimate per person
	Airfare decimal.Decimal `json:"airfare"`

	// HotelPerNight is the lodging rate per person per night
	HotelPerNight decimal.Decimal `json:"hotel_per_night"`

	// PerDiemPerDay is the per-diem rate per person per night
	PerDiemPerDay decimal.Decimal `json:"per_diem_per_day"`

	// VehiclePerDay is the ground transport rate per night
	VehiclePerDay decimal.Decimal `json:"vehicle_per_day"`
}

// Trip is one on-site visit
type Trip struct {
	// Days is the number of on-site days
	Days int `json:"days"`

	// People is the number of travelers
	People int `json:"people"`
}

// TripCost is the cost breakdown for a single trip
type TripCost struct {
	// Days is the number of on-site days
	Days int `json:"days"`

	// Nights is days + 1 (arrive the evening before)
	Nights int `json:"nights"`

	// People is the number of travelers
	People int `json:"people"`

	// Airfare is airfare x people
	Airfare decimal.Decimal `json:"airfare_cost"`

	// Hotel is hotel x people x nights
	Hotel decimal.Decimal `json:"hotel_cost"`

	// PerDiem is per-diem x people x nights
	PerDiem decimal.Decimal `json:"per_diem_cost"`

	// Vehicle is vehicle x nights
	Vehicle decimal.Decimal `json:"vehicle_cost"`

	// Total is the trip total
	Total decimal.Decimal `json:"trip_total"`
}

// Result is the aggregate travel cost for a quote
type Result struct {
	// ZoneCode is the zone the trips were priced against
	ZoneCode string `json:"zone_code"`

	// ZoneName is the zone display name
	ZoneName string `json:"zone_name"`

	// Trips holds the per-trip breakdowns
	Trips []TripCost `json:"trips"`

	// Total is the sum of all trip totals
	Total decimal.Decimal `json:"total_travel_cost"`
}

// Cost prices a single trip against a zone.
// Nights = days + 1: the team arrives the evening before the first on-site
// day. This convention is load-bearing and must not change.
func Cost(trip Trip, zone Zone) (TripCost, error) {
	if trip.Days <= 0 {
		return TripCost{}, errors.Validationf("trip days must be positive, got %d", trip.Days)
	}
	if trip.People <= 0 {
		return TripCost{}, errors.Validationf("trip people must be positive, got %d", trip.People)
	}

	nights := trip.Days + 1
	people := decimal.NewFromInt(int64(trip.People))
	nightsDec := decimal.NewFromInt(int64(nights))

	tc := TripCost{
		Days:    trip.Days,
		Nights:  nights,
		People:  trip.People,
		Airfare: zone.Airfare.Mul(people),
		Hotel:   zone.HotelPerNight.Mul(people).Mul(nightsDec),
		PerDiem: zone.PerDiemPerDay.Mul(people).Mul(nightsDec),
		Vehicle: zone.VehiclePerDay.Mul(nightsDec),
	}
	tc.Total = tc.Airfare.Add(tc.Hotel).Add(tc.PerDiem).Add(tc.Vehicle)
	return tc, nil
}

// Calculate prices all trips for a quote against one zone
func Calculate(zone Zone, trips []Trip) (*Result, error) {
	result := &Result{
		ZoneCode: zone.Code,
		ZoneName: zone.Name,
		Trips:    make([]TripCost, 0, len(trips)),
		Total:    decimal.Zero,
	}

	for _, trip := range trips {
		tc, err := Cost(trip, zone)
		if err != nil {
			return nil, err
		}
		result.Trips = append(result.Trips, tc)
		result.Total = result.Total.Add(tc.Total)
	}

	return result, nil
}
