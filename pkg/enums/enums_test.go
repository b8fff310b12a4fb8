package enums

import "testing"

func TestParseOrderStatus(t *testing.T) {
	for _, value := range []string{"new", "in_processing", "shipped", "delivered", "cancelled"} {
		status, err := ParseOrderStatus(value)
		if err != nil {
			t.Fatalf("expected %q to parse, got %v", value, err)
		}
		if !status.IsValid() {
			t.Fatalf("parsed status %q should be valid", value)
		}
	}

	if _, err := ParseOrderStatus("done"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	if !OrderStatusDelivered.IsTerminal() || !OrderStatusCancelled.IsTerminal() {
		t.Fatal("delivered and cancelled are terminal")
	}
	if OrderStatusNew.IsTerminal() || OrderStatusShipped.IsTerminal() {
		t.Fatal("new and shipped are not terminal")
	}
}

func TestRoleStaff(t *testing.T) {
	if !RoleAdmin.IsStaff() || !RoleModerator.IsStaff() {
		t.Fatal("admin and moderator are staff roles")
	}
	if RoleUser.IsStaff() {
		t.Fatal("user is not a staff role")
	}
}

func TestParsePaymentType(t *testing.T) {
	if _, err := ParsePaymentType("cash_on_delivery_np"); err != nil {
		t.Fatalf("expected cash_on_delivery_np to parse, got %v", err)
	}
	if _, err := ParsePaymentType("card"); err == nil {
		t.Fatal("expected error for unknown payment type")
	}
}

func TestParseRatingBounds(t *testing.T) {
	for value := 1; value <= 5; value++ {
		if _, err := ParseRating(value); err != nil {
			t.Fatalf("rating %d should parse, got %v", value, err)
		}
	}
	for _, value := range []int{0, 6, -1} {
		if _, err := ParseRating(value); err == nil {
			t.Fatalf("rating %d should be rejected", value)
		}
	}
}
