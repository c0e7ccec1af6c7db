package dto

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Coordinate accepts a decimal-degree value sent either as a JSON number or a
// string ("27.7" and 27.7 are both in the wild from mobile clients). The raw
// text is kept so the geofence can reject unparseable input instead of the
// decoder erroring out.
type Coordinate struct {
	raw string
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.raw = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		c.raw = n.String()
		return nil
	}
	c.raw = strings.TrimSpace(string(data))
	return nil
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	if v, err := strconv.ParseFloat(c.raw, 64); err == nil {
		return json.Marshal(v)
	}
	return json.Marshal(c.raw)
}

// String returns the raw decimal-degree text.
func (c Coordinate) String() string { return c.raw }

// Float parses the coordinate; ok is false for empty or non-numeric input.
func (c Coordinate) Float() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(c.raw), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NewCoordinate builds a Coordinate from raw text. Used by tests.
func NewCoordinate(raw string) Coordinate { return Coordinate{raw: raw} }

type DriverInfoRequest struct {
	ID string `json:"id" binding:"required"`
}

type ContactPointRequest struct {
	Name      string     `json:"name" binding:"required"`
	Phone     string     `json:"phone" binding:"required"`
	Email     string     `json:"email"`
	Latitude  Coordinate `json:"latitude"`
	Longitude Coordinate `json:"longitude"`
}

type GeoPointRequest struct {
	Latitude  Coordinate `json:"latitude"`
	Longitude Coordinate `json:"longitude"`
}

type AddOnsRequest struct {
	FragileItems bool `json:"fragile_items"`
	HeavyItem    bool `json:"heavy_item"`
}

type CreateJobRequest struct {
	DriverInfo DriverInfoRequest   `json:"driver_info" binding:"required"`
	Pickup     ContactPointRequest `json:"pickup" binding:"required"`
	Dropoff    ContactPointRequest `json:"dropoff" binding:"required"`
	Current    *GeoPointRequest    `json:"current"`
	Status     string              `json:"status"`
	Note       string              `json:"note"`
	AddOns     AddOnsRequest       `json:"add_ons"`
	IsUrgent   bool                `json:"is_urgent"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdateCoordinateRequest struct {
	CurrentCoords GeoPointRequest `json:"current_coords" binding:"required"`
}

type ListJobsRequest struct {
	Status string `form:"status"`
	Search string `form:"search"`
}

type SummaryDTO struct {
	InTransit      int64 `json:"in_transit"`
	Pending        int64 `json:"pending"`
	Urgent         int64 `json:"urgent"`
	DeliveredToday int64 `json:"delivered_today"`
}
