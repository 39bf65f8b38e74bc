package affinity

import "testing"

func TestAssignReturnsRequestedCount(t *testing.T) {
	ids, err := Assign(1)
	if err != nil {
		t.Fatalf("Assign(1): %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("Assign(1) returned %d ids, want 1", len(ids))
	}
}

func TestAssignFailsWhenRequestingMoreCoresThanAvailable(t *testing.T) {
	available, err := availableCoreIDs()
	if err != nil {
		t.Fatalf("availableCoreIDs: %v", err)
	}
	if _, err := Assign(len(available) + 1000); err == nil {
		t.Fatalf("expected Assign to fail when requesting more cores than available")
	}
}

func TestPinDoesNotError(t *testing.T) {
	ids, err := Assign(1)
	if err != nil {
		t.Fatalf("Assign(1): %v", err)
	}
	if err := Pin(ids[0]); err != nil {
		t.Fatalf("Pin(%d): %v", ids[0], err)
	}
}
