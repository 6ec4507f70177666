package shipping

import (
	"context"
	"errors"

	"github.com/atelierhq/atelier/internal/domain"
)

var (
	// ErrNoDestination is returned when the destination address is empty.
	ErrNoDestination = errors.New("shipping: destination address is required")

	// ErrNoItems is returned when a quote is requested for an empty shipment.
	ErrNoItems = errors.New("shipping: shipment has no items")
)

// Provider defines the interface for shipping rate calculation.
// Implementations can integrate with carriers like FedEx, UPS, USPS, etc.
type Provider interface {
	// GetRates returns available shipping options for a shipment.
	GetRates(ctx context.Context, params RateParams) ([]Rate, error)
}

// RateParams contains parameters for calculating shipping rates.
type RateParams struct {
	Destination   domain.Address
	SubtotalCents int64
	ItemCount     int32
}

// Rate represents a shipping rate option.
type Rate struct {
	Carrier     string
	ServiceName string
	ServiceCode string
	CostCents   int64
	DaysMin     int
	DaysMax     int
}
