package tourapi

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTourInput is the fully assembled tour sent to the creation API. The
// validation tags mirror the backend's own constraints so a draft is rejected
// locally before any network call.
type CreateTourInput struct {
	Title             string             `json:"title" validate:"required,min=3"`
	CategoryID        string             `json:"category_id" validate:"required"`
	Description       string             `json:"description" validate:"required,min=10"`
	OpenDay           string             `json:"open_day" validate:"required,datetime=2006-01-02"`
	CloseDay          string             `json:"close_day" validate:"required,datetime=2006-01-02"`
	ScheduleFrequency string             `json:"schedule_frequency" validate:"required"`
	About             string             `json:"about"`
	Include           string             `json:"include"`
	PickupInfo        string             `json:"pickup_info"`
	Images            []string           `json:"images"`
	Destinations      []DestinationInput `json:"destinations" validate:"required,min=1,dive"`
	Tickets           []TicketInput      `json:"tickets" validate:"required,min=1,dive"`
}

// DestinationInput is one stop on the tour route.
type DestinationInput struct {
	DestinationID   string          `json:"destination_id" validate:"required"`
	StartTime       string          `json:"start_time" validate:"required"`
	EndTime         string          `json:"end_time" validate:"required"`
	SortOrder       int             `json:"sort_order" validate:"min=0"`
	SortOrderByDate int             `json:"sort_order_by_date" validate:"min=0"`
	Images          []string        `json:"images"`
	Activities      []ActivityInput `json:"activities" validate:"dive"`
}

// ActivityInput is a scheduled activity inside a destination stop.
type ActivityInput struct {
	Name      string `json:"name" validate:"required"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	SortOrder int    `json:"sort_order" validate:"min=0"`
}

// TicketInput defines one purchasable ticket tier.
type TicketInput struct {
	DefaultNetCost          decimal.Decimal `json:"default_net_cost"`
	MinimumPurchaseQuantity int             `json:"minimum_purchase_quantity" validate:"min=1"`
	Kind                    string          `json:"ticket_kind" validate:"required"`
}

// CreatedTour is the payload returned by the creation API.
type CreatedTour struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
