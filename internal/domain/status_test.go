package domain

import "testing"

func TestStatusNext_Pickup(t *testing.T) {
	want := []Status{StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered}
	s := StatusPending
	for _, w := range want {
		next, err := s.Next(OrderTypePickup)
		if err != nil {
			t.Fatalf("next after %s: %v", s, err)
		}
		if next != w {
			t.Fatalf("after %s want %s, got %s", s, w, next)
		}
		s = next
	}
	if _, err := s.Next(OrderTypePickup); err == nil {
		t.Fatal("delivered should have no successor")
	}
}

func TestStatusNext_Delivery(t *testing.T) {
	want := []Status{StatusConfirmed, StatusPreparing, StatusReady, StatusOutForDelivery, StatusDelivered}
	s := StatusPending
	for _, w := range want {
		next, err := s.Next(OrderTypeDelivery)
		if err != nil {
			t.Fatalf("next after %s: %v", s, err)
		}
		if next != w {
			t.Fatalf("after %s want %s, got %s", s, w, next)
		}
		s = next
	}
}

func TestStatusNext_CancelledHasNoSuccessor(t *testing.T) {
	if _, err := StatusCancelled.Next(OrderTypePickup); err == nil {
		t.Fatal("cancelled should have no successor")
	}
}

func TestStatusTerminalAndCancel(t *testing.T) {
	cases := []struct {
		s          Status
		terminal   bool
		cancelable bool
	}{
		{StatusPending, false, true},
		{StatusConfirmed, false, true},
		{StatusPreparing, false, true},
		{StatusReady, false, true},
		{StatusOutForDelivery, false, true},
		{StatusDelivered, true, false},
		{StatusCancelled, true, false},
	}
	for _, c := range cases {
		if c.s.Terminal() != c.terminal {
			t.Errorf("%s: Terminal() = %v, want %v", c.s, c.s.Terminal(), c.terminal)
		}
		if c.s.CanCancel() != c.cancelable {
			t.Errorf("%s: CanCancel() = %v, want %v", c.s, c.s.CanCancel(), c.cancelable)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("preparing"); err != nil {
		t.Fatalf("preparing should parse: %v", err)
	}
	if _, err := ParseStatus("shipped"); err == nil {
		t.Fatal("unknown status should be rejected")
	}
	if _, err := ParseStatus(""); err == nil {
		t.Fatal("empty status should be rejected")
	}
}

func TestParseOrderType(t *testing.T) {
	for _, good := range []string{"pickup", "delivery"} {
		if _, err := ParseOrderType(good); err != nil {
			t.Fatalf("%s should parse: %v", good, err)
		}
	}
	if _, err := ParseOrderType("shipping"); err == nil {
		t.Fatal("unknown order type should be rejected")
	}
}
