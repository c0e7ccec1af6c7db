package model

import "time"

// ContactPoint is one end of a delivery: who to meet and where.
type ContactPoint struct {
	Name      string  `bson:"name" json:"name"`
	Phone     string  `bson:"phone" json:"phone"`
	Email     string  `bson:"email,omitempty" json:"email,omitempty"`
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// GeoPoint is a live-position snapshot reported by a driver device.
type GeoPoint struct {
	Latitude   float64   `bson:"latitude" json:"latitude"`
	Longitude  float64   `bson:"longitude" json:"longitude"`
	RecordedAt time.Time `bson:"recorded_at" json:"recorded_at"`
}

// DriverRef is the creation-time snapshot of the assigned driver.
type DriverRef struct {
	DriverID string `bson:"driver_id" json:"driver_id"`
	Name     string `bson:"name" json:"name"`
	Phone    string `bson:"phone" json:"phone"`
}

// AddOns are handling flags with no workflow effect.
type AddOns struct {
	FragileItems bool `bson:"fragile_items" json:"fragile_items"`
	HeavyItem    bool `bson:"heavy_item" json:"heavy_item"`
}

// Job is one delivery task. Current is nil until the first location update.
type Job struct {
	JobID     string       `bson:"job_id" json:"job_id"`
	Driver    DriverRef    `bson:"driver" json:"driver"`
	Pickup    ContactPoint `bson:"pickup" json:"pickup"`
	Dropoff   ContactPoint `bson:"dropoff" json:"dropoff"`
	Current   *GeoPoint    `bson:"current,omitempty" json:"current,omitempty"`
	Status    string       `bson:"status" json:"status"`
	Note      string       `bson:"note,omitempty" json:"note,omitempty"`
	AddOns    AddOns       `bson:"add_ons" json:"add_ons"`
	IsUrgent  bool         `bson:"is_urgent" json:"is_urgent"`
	CreatedAt time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time    `bson:"updated_at" json:"updated_at"`
}

// User is a row from the external accounts database. Read-only here.
type User struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Phone string `db:"phone"`
	Role  string `db:"role"`
}
