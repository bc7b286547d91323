package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BookingWizard/pkg/types"
)

// LocationType describes where a service may be rendered
type LocationType string

const (
	LocationOnline LocationType = "online"
	// LocationProviderAddress is the model's own address
	LocationProviderAddress LocationType = "my_address"
	LocationClientAddress   LocationType = "client_address"
)

// AllLocationTypes lists every known location type in display order
var AllLocationTypes = []LocationType{
	LocationOnline,
	LocationProviderAddress,
	LocationClientAddress,
}

// IsValid reports whether l is a known location type
func (l LocationType) IsValid() bool {
	switch l {
	case LocationOnline, LocationProviderAddress, LocationClientAddress:
		return true
	}
	return false
}

// ParseLocationType converts a wire value into a LocationType
func ParseLocationType(s string) (LocationType, error) {
	l := LocationType(s)
	if !l.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLocationType, s)
	}
	return l, nil
}

// BookableService is an active service offered by a model
type BookableService struct {
	ID              string
	Name            string
	Description     string
	Price           float64
	DurationMinutes int
	LocationTypes   []LocationType
}

// SupportsLocation reports whether the service may be rendered at location
func (s *BookableService) SupportsLocation(location LocationType) bool {
	for _, l := range s.LocationTypes {
		if l == location {
			return true
		}
	}
	return false
}

// BookableModel is a provider listed in the public catalog together with its active services
type BookableModel struct {
	ID           string
	Slug         string
	Name         string
	Description  string
	City         string
	Neighborhood string
	Services     []BookableService
}

// FindService returns the service with the given id, or nil
func (m *BookableModel) FindService(serviceID string) *BookableService {
	for i := range m.Services {
		if m.Services[i].ID == serviceID {
			return &m.Services[i]
		}
	}
	return nil
}

// WorkingDay is the schedule of a model for one weekday
type WorkingDay struct {
	Weekday   time.Weekday
	IsOpen    bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
}
