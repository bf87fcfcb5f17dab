package cart

import (
	"context"
	"strings"
	"sync"

	pkgerrors "github.com/tokoluma/luma-backend/pkg/errors"
	"github.com/tokoluma/luma-backend/pkg/logger"
)

var errEmptyItemID = pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")

// LineItem is one row of a profile's cart ledger. Name, price, and image are
// frozen at first add so later catalog edits do not silently reprice a cart.
type LineItem struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// LineTotal returns the extended price for the line.
func (li LineItem) LineTotal() int64 {
	return li.UnitPrice * int64(li.Quantity)
}

// Mutation names appear as metric labels and in change events.
const (
	OpAdd    = "add"
	OpUpdate = "update"
	OpRemove = "remove"
	OpClear  = "clear"
	OpReset  = "reset"
)

// Event describes one applied ledger mutation.
type Event struct {
	ProfileID  string
	Op         string
	ItemID     string
	TotalItems int
	TotalPrice int64
}

// Listener receives ledger change events. Listeners must not block.
type Listener func(Event)

// Ledger is the in-memory cart for a single profile. All mutations persist
// through the Store and then notify subscribers; a failed Save is logged and
// swallowed so the in-memory cart stays usable.
type Ledger struct {
	mu        sync.Mutex
	profileID string
	items     []LineItem
	store     Store
	logg      *logger.Logger
	listeners []Listener
}

// Subscribe registers a listener for subsequent mutations.
func (l *Ledger) Subscribe(fn Listener) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// Add merges the item into the ledger. An existing line with the same ID has
// its quantity incremented and keeps its first-seen name, price, and image;
// the incoming snapshot is only used for brand-new lines.
func (l *Ledger) Add(ctx context.Context, item LineItem, quantity int) error {
	if strings.TrimSpace(item.ID) == "" {
		return errEmptyItemID
	}
	if quantity <= 0 {
		quantity = 1
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	found := false
	for i := range l.items {
		if l.items[i].ID == item.ID {
			l.items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		item.Quantity = quantity
		l.items = append(l.items, item)
	}

	l.persist(ctx)
	l.notify(OpAdd, item.ID)
	return nil
}

// UpdateQuantity sets the quantity of the identified line. A quantity of zero
// or less removes the line entirely. An absent id is a no-op: nothing is
// persisted and no event fires.
func (l *Ledger) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	if strings.TrimSpace(itemID) == "" {
		return errEmptyItemID
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if quantity <= 0 {
		if l.removeLocked(itemID) {
			l.persist(ctx)
			l.notify(OpRemove, itemID)
		}
		return nil
	}

	for i := range l.items {
		if l.items[i].ID == itemID {
			l.items[i].Quantity = quantity
			l.persist(ctx)
			l.notify(OpUpdate, itemID)
			return nil
		}
	}
	return nil
}

// Remove deletes the identified line. Removing an absent line is a no-op:
// nothing is persisted and no event fires.
func (l *Ledger) Remove(ctx context.Context, itemID string) error {
	if strings.TrimSpace(itemID) == "" {
		return errEmptyItemID
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.removeLocked(itemID) {
		l.persist(ctx)
		l.notify(OpRemove, itemID)
	}
	return nil
}

// Clear empties the ledger.
func (l *Ledger) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = nil
	l.persist(ctx)
	l.notify(OpClear, "")
}

// Items returns a copy of the current lines in insertion order.
func (l *Ledger) Items() []LineItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

// Item returns the line with the given ID, if present.
func (l *Ledger) Item(itemID string) (LineItem, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, item := range l.items {
		if item.ID == itemID {
			return item, true
		}
	}
	return LineItem{}, false
}

// TotalItems returns the summed unit count across all lines.
func (l *Ledger) TotalItems() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return totalItems(l.items)
}

// TotalPrice returns the summed extended price across all lines in rupiah.
func (l *Ledger) TotalPrice() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return totalPrice(l.items)
}

// ProfileID identifies the cart slot this ledger is bound to.
func (l *Ledger) ProfileID() string {
	return l.profileID
}

func (l *Ledger) removeLocked(itemID string) bool {
	kept := l.items[:0]
	removed := false
	for _, item := range l.items {
		if item.ID == itemID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	l.items = kept
	return removed
}

// persist writes the current lines through the store. Persistence failures
// must not lose the in-memory cart, so errors are logged and dropped.
func (l *Ledger) persist(ctx context.Context) {
	if l.store == nil {
		return
	}
	snapshot := make([]LineItem, len(l.items))
	copy(snapshot, l.items)
	if err := l.store.Save(ctx, l.profileID, snapshot); err != nil {
		l.logg.Error(l.logg.WithProfileID(ctx, l.profileID), "persisting cart ledger", err)
	}
}

func (l *Ledger) notify(op, itemID string) {
	event := Event{
		ProfileID:  l.profileID,
		Op:         op,
		ItemID:     itemID,
		TotalItems: totalItems(l.items),
		TotalPrice: totalPrice(l.items),
	}
	for _, fn := range l.listeners {
		fn(event)
	}
}

func totalItems(items []LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

func totalPrice(items []LineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}
