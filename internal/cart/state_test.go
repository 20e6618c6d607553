package cart

import "testing"

func snap(id string, price, stock int) Snapshot {
	return Snapshot{ID: id, Name: "item " + id, PriceCents: price, Stock: stock}
}

func TestAddNewLine(t *testing.T) {
	t.Parallel()

	next, result := Add(nil, snap("a", 500, 10), 2)
	if result != ResultAdded {
		t.Fatalf("unexpected result %s", result)
	}
	if len(next) != 1 || next[0].Quantity != 2 {
		t.Fatalf("unexpected state %+v", next)
	}
}

func TestAddMergesExistingLine(t *testing.T) {
	t.Parallel()

	state, _ := Add(nil, snap("a", 500, 10), 2)
	next, result := Add(state, snap("a", 500, 10), 3)
	if result != ResultUpdated {
		t.Fatalf("unexpected result %s", result)
	}
	if len(next) != 1 || next[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %+v", next)
	}
}

func TestAddRefreshesSnapshotOnMerge(t *testing.T) {
	t.Parallel()

	state, _ := Add(nil, snap("a", 500, 10), 2)
	next, result := Add(state, snap("a", 700, 20), 1)
	if result != ResultUpdated {
		t.Fatalf("unexpected result %s", result)
	}
	if next[0].PriceCents != 700 || next[0].Stock != 20 {
		t.Fatalf("expected refreshed snapshot, got %+v", next[0])
	}
}

func TestAddClampsQuantityToOne(t *testing.T) {
	t.Parallel()

	next, result := Add(nil, snap("a", 500, 10), 0)
	if result != ResultAdded || next[0].Quantity != 1 {
		t.Fatalf("expected quantity 1, got %+v (%s)", next, result)
	}
}

func TestAddRejectsBeyondStock(t *testing.T) {
	t.Parallel()

	state, _ := Add(nil, snap("a", 500, 3), 2)
	next, result := Add(state, snap("a", 500, 3), 2)
	if !result.Rejected() {
		t.Fatalf("expected rejection, got %s", result)
	}
	if len(next) != 1 || next[0].Quantity != 2 {
		t.Fatalf("expected state untouched, got %+v", next)
	}
}

func TestAddRejectsNewLineBeyondStock(t *testing.T) {
	t.Parallel()

	next, result := Add(nil, snap("a", 500, 1), 2)
	if result != ResultStockExceeded {
		t.Fatalf("unexpected result %s", result)
	}
	if len(next) != 0 {
		t.Fatalf("expected empty state, got %+v", next)
	}
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	state, _ := Add(nil, snap("a", 100, 10), 1)
	state, _ = Add(state, snap("b", 200, 10), 1)
	state, _ = Add(state, snap("a", 100, 10), 1)

	if state[0].ID != "a" || state[1].ID != "b" {
		t.Fatalf("expected original order, got %+v", state)
	}
}

func TestRemoveDropsLine(t *testing.T) {
	t.Parallel()

	state, _ := Add(nil, snap("a", 100, 10), 1)
	state, _ = Add(state, snap("b", 200, 10), 1)

	next, result := Remove(state, "a")
	if result != ResultRemoved {
		t.Fatalf("unexpected result %s", result)
	}
	if len(next) != 1 || next[0].ID != "b" {
		t.Fatalf("unexpected state %+v", next)
	}
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	t.Parallel()

	state, _ := Add(nil, snap("a", 100, 10), 1)
	next, result := Remove(state, "missing")
	if result != ResultRemoved {
		t.Fatalf("unexpected result %s", result)
	}
	if len(next) != 1 {
		t.Fatalf("unexpected state %+v", next)
	}
}

func TestSetQuantityUpdatesLine(t *testing.T) {
	t.Parallel()

	state, _ := Add(nil, snap("a", 100, 10), 1)
	next, result := SetQuantity(state, "a", 7)
	if result != ResultUpdated || next[0].Quantity != 7 {
		t.Fatalf("unexpected outcome %+v (%s)", next, result)
	}
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	t.Parallel()

	state, _ := Add(nil, snap("a", 100, 10), 1)
	next, result := SetQuantity(state, "a", 0)
	if result != ResultRemoved {
		t.Fatalf("unexpected result %s", result)
	}
	if len(next) != 0 {
		t.Fatalf("unexpected state %+v", next)
	}
}

func TestSetQuantityRejectsBeyondStoredStock(t *testing.T) {
	t.Parallel()

	state, _ := Add(nil, snap("a", 100, 5), 2)
	next, result := SetQuantity(state, "a", 6)
	if !result.Rejected() {
		t.Fatalf("expected rejection, got %s", result)
	}
	if next[0].Quantity != 2 {
		t.Fatalf("expected quantity preserved, got %+v", next)
	}
}

func TestClearEmptiesState(t *testing.T) {
	t.Parallel()

	state, _ := Add(nil, snap("a", 100, 10), 3)
	next, result := Clear(state)
	if result != ResultCleared || len(next) != 0 {
		t.Fatalf("unexpected outcome %+v (%s)", next, result)
	}
}

func TestAggregates(t *testing.T) {
	t.Parallel()

	state, _ := Add(nil, snap("a", 250, 10), 2)
	state, _ = Add(state, snap("b", 1000, 10), 3)

	if got := state.TotalCents(); got != 3500 {
		t.Fatalf("unexpected total %d", got)
	}
	if got := state.ItemCount(); got != 5 {
		t.Fatalf("unexpected count %d", got)
	}

	var empty State
	if empty.TotalCents() != 0 || empty.ItemCount() != 0 {
		t.Fatal("expected zero aggregates for empty state")
	}
}
