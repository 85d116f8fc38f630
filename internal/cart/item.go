package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tourigo/tourigo-client/pkg/enums"
)

const dayLayout = "2006-01-02"

// TourSnapshot is a denormalized copy of the tour an item books. It is owned by
// value; mutations to the live tour entity never reach the cart.
type TourSnapshot struct {
	TourID       string `json:"tour_id"`
	Title        string `json:"title"`
	CategoryID   string `json:"category_id"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// TicketLine is one priced ticket-type row inside a cart item. Quantity is
// always positive; a line that would drop to zero is removed instead.
type TicketLine struct {
	TicketTypeID string           `json:"ticket_type_id"`
	Kind         enums.TicketKind `json:"kind"`
	UnitCost     decimal.Decimal  `json:"unit_cost"`
	Quantity     int              `json:"quantity"`
}

// TicketOption describes a ticket type available for a schedule when adding to
// the cart.
type TicketOption struct {
	TicketTypeID string
	Kind         enums.TicketKind
	UnitCost     decimal.Decimal
}

// Item is one cart entry, keyed by ScheduleID.
type Item struct {
	Tour       TourSnapshot    `json:"tour"`
	ScheduleID string          `json:"schedule_id"`
	Day        string          `json:"day"`
	Tickets    []TicketLine    `json:"tickets"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func (i *Item) recomputeTotal() {
	total := decimal.Zero
	for _, line := range i.Tickets {
		total = total.Add(line.UnitCost.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	i.TotalPrice = total
}

func (i Item) clone() Item {
	out := i
	out.Tickets = make([]TicketLine, len(i.Tickets))
	copy(out.Tickets, i.Tickets)
	return out
}

// dayBefore reports whether the item's day is strictly before the given moment's
// calendar date. Unparseable days are treated as not yet passed.
func (i Item) dayBefore(now time.Time) bool {
	day, err := time.Parse(dayLayout, i.Day)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return day.Before(today)
}
