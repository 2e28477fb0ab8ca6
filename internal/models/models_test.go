package models

import "testing"

func TestBookingCanCancel(t *testing.T) {
	cancellable := []string{BookingPending, BookingConfirmed, BookingDriverAssigned, BookingInProgress}
	for _, status := range cancellable {
		b := Booking{Status: status}
		if !b.CanCancel() {
			t.Errorf("%s should be cancellable", status)
		}
	}
	terminal := []string{BookingCompleted, BookingCancelled, "unknown"}
	for _, status := range terminal {
		b := Booking{Status: status}
		if b.CanCancel() {
			t.Errorf("%s should not be cancellable", status)
		}
	}
}

func TestUserRoleHelpers(t *testing.T) {
	if !(&User{Role: RoleAdmin}).IsAdmin() {
		t.Error("admin should be admin")
	}
	if (&User{Role: RoleCustomer}).IsDriver() {
		t.Error("customer is not a driver")
	}
}
