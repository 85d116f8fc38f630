package tour

import (
	"github.com/shopspring/decimal"
	"github.com/tourigo/tourigo-client/pkg/enums"
)

// Activity is a scheduled activity inside a destination stop.
type Activity struct {
	Name      string
	StartTime string
	EndTime   string
	SortOrder int
}

// Destination is one stop on the in-progress tour route. Images holds
// already-uploaded URLs only; staged local files live in the wizard's pending
// side-table until submission.
type Destination struct {
	DestinationID   string
	StartTime       string
	EndTime         string
	SortOrder       int
	SortOrderByDate int
	Images          []string
	Activities      []Activity
}

// TicketSpec defines one purchasable ticket tier of the draft.
type TicketSpec struct {
	DefaultNetCost          decimal.Decimal
	MinimumPurchaseQuantity int
	Kind                    enums.TicketKind
}

// Composition is the in-progress tour-creation draft, accumulated step by step
// and held in memory until the final submission.
type Composition struct {
	Title             string
	CategoryID        string
	Description       string
	OpenDay           string
	CloseDay          string
	ScheduleFrequency enums.ScheduleFrequency
	About             string
	Include           string
	PickupInfo        string
	Images            []string
	Destinations      []Destination
	Tickets           []TicketSpec
}

func (c Composition) clone() Composition {
	out := c
	out.Images = append([]string(nil), c.Images...)
	out.Destinations = cloneDestinations(c.Destinations)
	out.Tickets = append([]TicketSpec(nil), c.Tickets...)
	return out
}

func cloneDestinations(destinations []Destination) []Destination {
	if destinations == nil {
		return nil
	}
	out := make([]Destination, len(destinations))
	for i, dest := range destinations {
		copied := dest
		copied.Images = append([]string(nil), dest.Images...)
		copied.Activities = append([]Activity(nil), dest.Activities...)
		out[i] = copied
	}
	return out
}

// BasicInfoPatch carries the fields owned by the basic-info step. Nil fields
// are left untouched so later merges never clobber earlier input.
type BasicInfoPatch struct {
	Title       *string
	CategoryID  *string
	Description *string
}

// ScheduleInfoPatch carries the fields owned by the schedule step.
type ScheduleInfoPatch struct {
	OpenDay           *string
	CloseDay          *string
	ScheduleFrequency *enums.ScheduleFrequency
}

// AdditionalInfoPatch carries the descriptive fields owned by the details step.
type AdditionalInfoPatch struct {
	About      *string
	Include    *string
	PickupInfo *string
}

// DestinationsPatch replaces the destination list, the only field its step owns.
type DestinationsPatch struct {
	Destinations []Destination
}

// TicketsPatch replaces the ticket tiers, the only field its step owns.
type TicketsPatch struct {
	Tickets []TicketSpec
}
