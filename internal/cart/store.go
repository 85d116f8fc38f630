package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tourigo/tourigo-client/pkg/logger"
)

// DefaultTTL is the cart inactivity window after which a persisted snapshot is
// discarded wholesale on the next load.
const DefaultTTL = 7200 * time.Minute

// Direction selects how UpdateQuantity adjusts a ticket line.
type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
)

// Options configure a cart store instance.
type Options struct {
	Persistence Persistence
	TTL         time.Duration
	Now         func() time.Time
	Logger      *logger.Logger
}

// Store holds the booking cart state. All operations are total functions:
// unknown ids are ignored, never errored. The only observable rejection is the
// past-day guard on SelectForPayment.
type Store struct {
	mu          sync.Mutex
	items       []Item
	selected    map[string]struct{}
	paymentItem *Item

	persistence Persistence
	ttl         time.Duration
	now         func() time.Time
	logg        *logger.Logger
}

// New builds a cart store and rehydrates it from persistence. A snapshot whose
// LastMutatedAt is older than the TTL is discarded and cleared from the backing
// store.
func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Store{
		selected:    map[string]struct{}{},
		persistence: opts.Persistence,
		ttl:         opts.TTL,
		now:         opts.Now,
		logg:        opts.Logger,
	}
	if err := s.rehydrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) rehydrate(ctx context.Context) error {
	if s.persistence == nil {
		return nil
	}
	snapshot, err := s.persistence.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading cart snapshot: %w", err)
	}
	if snapshot == nil {
		return nil
	}
	if s.now().Sub(snapshot.LastMutatedAt) > s.ttl {
		s.logg.Info(ctx, "cart snapshot expired, discarding")
		if err := s.persistence.Clear(ctx); err != nil {
			s.logg.Warn(ctx, "clearing expired cart snapshot failed")
		}
		return nil
	}
	s.items = make([]Item, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		restored := item.clone()
		restored.recomputeTotal()
		s.items = append(s.items, restored)
	}
	return nil
}

// AddItem adds or replaces the entry for scheduleID. Ticket types with a
// requested quantity of zero or less are dropped; when nothing remains the call
// is a no-op. Replacement preserves the item's position in the cart.
func (s *Store) AddItem(ctx context.Context, tour TourSnapshot, scheduleID, day string, available []TicketOption, quantities map[string]int) {
	lines := make([]TicketLine, 0, len(available))
	for _, opt := range available {
		qty := quantities[opt.TicketTypeID]
		if qty <= 0 {
			continue
		}
		lines = append(lines, TicketLine{
			TicketTypeID: opt.TicketTypeID,
			Kind:         opt.Kind,
			UnitCost:     opt.UnitCost,
			Quantity:     qty,
		})
	}
	if len(lines) == 0 {
		s.logg.Warn(s.logg.WithScheduleID(ctx, scheduleID), "add to cart with no positive quantities ignored")
		return
	}

	item := Item{Tour: tour, ScheduleID: scheduleID, Day: day, Tickets: lines}
	item.recomputeTotal()

	s.mu.Lock()
	defer s.mu.Unlock()
	replaced := false
	for i := range s.items {
		if s.items[i].ScheduleID == scheduleID {
			s.items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		s.items = append(s.items, item)
	}
	s.persistLocked(ctx)
}

// RemoveItem drops the entry for scheduleID, along with its selection and
// payment designation. Unknown ids are ignored.
func (s *Store) RemoveItem(ctx context.Context, scheduleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.removeLocked(scheduleID) {
		return
	}
	s.persistLocked(ctx)
}

func (s *Store) removeLocked(scheduleID string) bool {
	for i := range s.items {
		if s.items[i].ScheduleID != scheduleID {
			continue
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		delete(s.selected, scheduleID)
		if s.paymentItem != nil && s.paymentItem.ScheduleID == scheduleID {
			s.paymentItem = nil
		}
		return true
	}
	return false
}

// UpdateQuantity adjusts one ticket line by a single unit. Decreasing past the
// floor removes the line, and removes the whole item when it was the last line.
// Unknown schedule or ticket-type ids are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, scheduleID, ticketTypeID string, direction Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	itemIdx := -1
	for i := range s.items {
		if s.items[i].ScheduleID == scheduleID {
			itemIdx = i
			break
		}
	}
	if itemIdx < 0 {
		return
	}
	item := &s.items[itemIdx]

	lineIdx := -1
	for i := range item.Tickets {
		if item.Tickets[i].TicketTypeID == ticketTypeID {
			lineIdx = i
			break
		}
	}
	if lineIdx < 0 {
		return
	}

	switch direction {
	case DirectionIncrease:
		item.Tickets[lineIdx].Quantity++
	case DirectionDecrease:
		if item.Tickets[lineIdx].Quantity > 1 {
			item.Tickets[lineIdx].Quantity--
			break
		}
		if len(item.Tickets) > 1 {
			item.Tickets = append(item.Tickets[:lineIdx], item.Tickets[lineIdx+1:]...)
			break
		}
		s.removeLocked(scheduleID)
		s.persistLocked(ctx)
		return
	default:
		return
	}

	item.recomputeTotal()
	s.persistLocked(ctx)
}

// SelectItem marks or unmarks an item for bulk action. Ids without a matching
// item are ignored so the selection always stays a subset of the cart.
func (s *Store) SelectItem(ctx context.Context, scheduleID string, checked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !checked {
		delete(s.selected, scheduleID)
		s.persistLocked(ctx)
		return
	}
	for i := range s.items {
		if s.items[i].ScheduleID == scheduleID {
			s.selected[scheduleID] = struct{}{}
			s.persistLocked(ctx)
			return
		}
	}
}

// ToggleSelectAll selects every item or clears the selection.
func (s *Store) ToggleSelectAll(ctx context.Context, checked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = map[string]struct{}{}
	if checked {
		for i := range s.items {
			s.selected[s.items[i].ScheduleID] = struct{}{}
		}
	}
	s.persistLocked(ctx)
}

// RemoveSelectedItems removes every selected item in one pass. No-op when the
// selection is empty.
func (s *Store) RemoveSelectedItems(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.selected) == 0 {
		return
	}
	kept := s.items[:0]
	for i := range s.items {
		if _, ok := s.selected[s.items[i].ScheduleID]; ok {
			if s.paymentItem != nil && s.paymentItem.ScheduleID == s.items[i].ScheduleID {
				s.paymentItem = nil
			}
			continue
		}
		kept = append(kept, s.items[i])
	}
	s.items = kept
	s.selected = map[string]struct{}{}
	s.persistLocked(ctx)
}

// SelectForPayment stages a single item for checkout. Items whose day has
// already passed are silently refused; callers observe the refusal by
// re-reading PaymentItem.
func (s *Store) SelectForPayment(ctx context.Context, scheduleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ScheduleID != scheduleID {
			continue
		}
		if s.items[i].dayBefore(s.now()) {
			s.logg.Warn(s.logg.WithScheduleID(ctx, scheduleID), "refusing payment selection for past schedule day")
			return
		}
		copied := s.items[i].clone()
		s.paymentItem = &copied
		s.persistLocked(ctx)
		return
	}
}

// ClearPaymentItem drops the checkout designation.
func (s *Store) ClearPaymentItem(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paymentItem = nil
	s.persistLocked(ctx)
}

// GetByID returns a copy of the item for scheduleID.
func (s *Store) GetByID(scheduleID string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ScheduleID == scheduleID {
			return s.items[i].clone(), true
		}
	}
	return Item{}, false
}

// Items returns a copy of the cart entries in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, 0, len(s.items))
	for i := range s.items {
		out = append(out, s.items[i].clone())
	}
	return out
}

// SelectedIDs returns the selected schedule ids in cart order.
func (s *Store) SelectedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.selected))
	for i := range s.items {
		if _, ok := s.selected[s.items[i].ScheduleID]; ok {
			out = append(out, s.items[i].ScheduleID)
		}
	}
	return out
}

// SelectAll reports whether every current item is selected and the cart is
// non-empty.
func (s *Store) SelectAll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) > 0 && len(s.selected) == len(s.items)
}

// PaymentItem returns a copy of the entry staged for checkout.
func (s *Store) PaymentItem() (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paymentItem == nil {
		return Item{}, false
	}
	return s.paymentItem.clone(), true
}

// PaymentTotal returns the staged item's total, or zero when nothing is staged.
func (s *Store) PaymentTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paymentItem == nil {
		return decimal.Zero
	}
	return s.paymentItem.TotalPrice
}

// CartTotal returns the sum of all item totals.
func (s *Store) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for i := range s.items {
		total = total.Add(s.items[i].TotalPrice)
	}
	return total
}

// ItemCount returns the number of cart entries, not the ticket count.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// persistLocked writes the current snapshot and refreshes the inactivity
// timestamp. Persistence failures are logged, never surfaced: cart operations
// stay total.
func (s *Store) persistLocked(ctx context.Context) {
	if s.persistence == nil {
		return
	}
	snapshot := &Snapshot{
		Items:         make([]Item, 0, len(s.items)),
		LastMutatedAt: s.now(),
	}
	for i := range s.items {
		snapshot.Items = append(snapshot.Items, s.items[i].clone())
	}
	if err := s.persistence.Save(ctx, snapshot); err != nil {
		s.logg.Error(ctx, "persisting cart snapshot failed", err)
	}
}
