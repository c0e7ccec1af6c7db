package domain

import (
	"errors"
)

const (
	JobStatusPending   = "pending"
	JobStatusInTransit = "in-transit"
	JobStatusDelayed   = "delayed"
	JobStatusDelivered = "delivered"
	JobStatusCancelled = "cancelled"
)

// JobStatuses lists every status a job may hold. Transitions between members
// are unrestricted; only membership is enforced.
var JobStatuses = []string{
	JobStatusPending,
	JobStatusInTransit,
	JobStatusDelayed,
	JobStatusDelivered,
	JobStatusCancelled,
}

// IsValidStatus reports whether s is one of the enumerated job statuses.
func IsValidStatus(s string) bool {
	for _, v := range JobStatuses {
		if s == v {
			return true
		}
	}
	return false
}

const (
	RoleAdmin  = "admin"
	RoleDriver = "driver"
)

var (
	// ErrJobNotFound is returned when a job id does not resolve
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidStatus is returned when a status value is outside the enum
	ErrInvalidStatus = errors.New("invalid job status")

	// ErrInvalidDriverID is returned when a driver id is not a well-formed identifier
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrNotADriver is returned when the referenced user is absent or not a driver
	ErrNotADriver = errors.New("user does not exist or is not a driver")

	// ErrOutOfRegion is returned when coordinates fall outside the service geofence
	ErrOutOfRegion = errors.New("coordinates outside the service region")

	// ErrInvalidCoordinate is returned when a coordinate value cannot be parsed
	ErrInvalidCoordinate = errors.New("invalid coordinate value")
)
