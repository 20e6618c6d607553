package cart

// Item is one line of a cart: a product snapshot plus a quantity. The
// snapshot fields are frozen at the time the product was last added; the
// stock ceiling does not refresh when catalog stock changes afterwards.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	PriceCents  int      `json:"price"`
	Stock       int      `json:"stock"`
	ImageURLs   []string `json:"image_urls,omitempty"`
	Quantity    int      `json:"quantity"`
}

// Snapshot carries the product fields copied into a cart line at add time.
type Snapshot struct {
	ID          string
	Name        string
	Description string
	PriceCents  int
	Stock       int
	ImageURLs   []string
}

// State is the ordered list of cart lines. Order is insertion order and is
// never rearranged. Product IDs are unique within a state.
type State []Item

// Result reports what a state transition did. Mutations never fail with an
// error; a rejected mutation returns the input state unchanged together
// with ResultStockExceeded, and the caller decides how to notify.
type Result string

const (
	ResultAdded         Result = "added"
	ResultUpdated       Result = "updated"
	ResultRemoved       Result = "removed"
	ResultCleared       Result = "cleared"
	ResultStockExceeded Result = "stock_exceeded"
)

// Rejected reports whether the transition left the state untouched.
func (r Result) Rejected() bool {
	return r == ResultStockExceeded
}

// Add merges qty units of the snapshotted product into the state. An
// existing line for the same product ID is topped up and its snapshot
// refreshed; the cumulative quantity may not exceed the snapshot's stock.
func Add(s State, snap Snapshot, qty int) (State, Result) {
	if qty < 1 {
		qty = 1
	}

	for i, item := range s {
		if item.ID != snap.ID {
			continue
		}
		newQty := item.Quantity + qty
		if newQty > snap.Stock {
			return s, ResultStockExceeded
		}
		next := clone(s)
		next[i] = itemFromSnapshot(snap, newQty)
		return next, ResultUpdated
	}

	if qty > snap.Stock {
		return s, ResultStockExceeded
	}
	next := clone(s)
	next = append(next, itemFromSnapshot(snap, qty))
	return next, ResultAdded
}

// Remove drops the line with the given product ID. Removing an absent ID is
// a no-op, not an error.
func Remove(s State, id string) (State, Result) {
	next := make(State, 0, len(s))
	for _, item := range s {
		if item.ID != id {
			next = append(next, item)
		}
	}
	return next, ResultRemoved
}

// SetQuantity pins the line's quantity to qty. A non-positive qty removes
// the line; a qty above the line's stored stock ceiling is rejected and the
// line keeps its previous quantity.
func SetQuantity(s State, id string, qty int) (State, Result) {
	if qty <= 0 {
		return Remove(s, id)
	}
	for i, item := range s {
		if item.ID != id {
			continue
		}
		if qty > item.Stock {
			return s, ResultStockExceeded
		}
		next := clone(s)
		next[i].Quantity = qty
		return next, ResultUpdated
	}
	return s, ResultUpdated
}

// Clear empties the cart.
func Clear(s State) (State, Result) {
	return State{}, ResultCleared
}

// TotalCents is the sum of unit price times quantity over all lines,
// recomputed on every call.
func (s State) TotalCents() int {
	total := 0
	for _, item := range s {
		total += item.PriceCents * item.Quantity
	}
	return total
}

// ItemCount is the sum of quantities over all lines, recomputed on every call.
func (s State) ItemCount() int {
	count := 0
	for _, item := range s {
		count += item.Quantity
	}
	return count
}

func itemFromSnapshot(snap Snapshot, qty int) Item {
	return Item{
		ID:          snap.ID,
		Name:        snap.Name,
		Description: snap.Description,
		PriceCents:  snap.PriceCents,
		Stock:       snap.Stock,
		ImageURLs:   snap.ImageURLs,
		Quantity:    qty,
	}
}

func clone(s State) State {
	next := make(State, len(s))
	copy(next, s)
	return next
}
