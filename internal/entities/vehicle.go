package entities

import (
	"strings"

	"carrental/internal/db"
)

type CreateVehicleRequest struct {
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	Year        int    `json:"year"`
	PlateNumber string `json:"plate_number"`
	Color       string `json:"color"`
	DailyRate   int64  `json:"daily_rate"`
	Location    string `json:"location"`
}

func (r CreateVehicleRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return validationError("name is required")
	case strings.TrimSpace(r.PlateNumber) == "":
		return validationError("plate_number is required")
	case strings.TrimSpace(r.Location) == "":
		return validationError("location is required")
	case r.Year < 1900 || r.Year > 2100:
		return validationError("year is out of range")
	case r.DailyRate < 0:
		return validationError("daily_rate cannot be negative")
	}
	return nil
}

// UpdateVehicleRequest changes only the fields that are present.
type UpdateVehicleRequest struct {
	Name        *string `json:"name,omitempty"`
	Brand       *string `json:"brand,omitempty"`
	Model       *string `json:"model,omitempty"`
	Year        *int    `json:"year,omitempty"`
	PlateNumber *string `json:"plate_number,omitempty"`
	Color       *string `json:"color,omitempty"`
	DailyRate   *int64  `json:"daily_rate,omitempty"`
	IsAvailable *bool   `json:"is_available,omitempty"`
	Location    *string `json:"location,omitempty"`
}

func (r UpdateVehicleRequest) Validate() error {
	if r.Year != nil && (*r.Year < 1900 || *r.Year > 2100) {
		return validationError("year is out of range")
	}
	if r.DailyRate != nil && *r.DailyRate < 0 {
		return validationError("daily_rate cannot be negative")
	}
	if r.PlateNumber != nil && strings.TrimSpace(*r.PlateNumber) == "" {
		return validationError("plate_number cannot be empty")
	}
	return nil
}

// Apply merges the request into v.
func (r UpdateVehicleRequest) Apply(v *db.Vehicle) {
	if r.Name != nil {
		v.Name = *r.Name
	}
	if r.Brand != nil {
		v.Brand = *r.Brand
	}
	if r.Model != nil {
		v.Model = *r.Model
	}
	if r.Year != nil {
		v.Year = *r.Year
	}
	if r.PlateNumber != nil {
		v.PlateNumber = *r.PlateNumber
	}
	if r.Color != nil {
		v.Color = *r.Color
	}
	if r.DailyRate != nil {
		v.DailyRate = *r.DailyRate
	}
	if r.IsAvailable != nil {
		v.IsAvailable = *r.IsAvailable
	}
	if r.Location != nil {
		v.Location = *r.Location
	}
}

type VehicleResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	Year        int    `json:"year"`
	PlateNumber string `json:"plate_number"`
	Color       string `json:"color"`
	DailyRate   int64  `json:"daily_rate"`
	IsAvailable bool   `json:"is_available"`
	Location    string `json:"location"`
}

func NewVehicleResponse(v db.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:          v.ID,
		Name:        v.Name,
		Brand:       v.Brand,
		Model:       v.Model,
		Year:        v.Year,
		PlateNumber: v.PlateNumber,
		Color:       v.Color,
		DailyRate:   v.DailyRate,
		IsAvailable: v.IsAvailable,
		Location:    v.Location,
	}
}

func NewVehicleResponses(vs []db.Vehicle) []VehicleResponse {
	out := make([]VehicleResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, NewVehicleResponse(v))
	}
	return out
}
