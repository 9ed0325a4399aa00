package domain

import "testing"

func TestBookingTransitions(t *testing.T) {
	legal := [][2]string{
		{BookingPending, BookingConfirmed},
		{BookingPending, BookingCancelled},
		{BookingConfirmed, BookingActive},
		{BookingConfirmed, BookingCancelled},
		{BookingActive, BookingCompleted},
		{BookingActive, BookingCancelled},
	}
	for _, tc := range legal {
		if !CanTransitionBooking(tc[0], tc[1]) {
			t.Fatalf("expected %s -> %s to be legal", tc[0], tc[1])
		}
	}

	illegal := [][2]string{
		{BookingPending, BookingActive},
		{BookingPending, BookingCompleted},
		{BookingConfirmed, BookingCompleted},
		{BookingCompleted, BookingActive},
		{BookingCancelled, BookingConfirmed},
		{BookingActive, BookingActive},
	}
	for _, tc := range illegal {
		if CanTransitionBooking(tc[0], tc[1]) {
			t.Fatalf("expected %s -> %s to be illegal", tc[0], tc[1])
		}
	}
}

func TestVehicleTransitions(t *testing.T) {
	if !CanTransitionVehicle(VehicleAvailable, VehicleReserved) {
		t.Fatal("available -> reserved should be legal")
	}
	if !CanTransitionVehicle(VehicleReserved, VehicleRented) {
		t.Fatal("reserved -> rented should be legal")
	}
	if !CanTransitionVehicle(VehicleRented, VehicleAvailable) {
		t.Fatal("rented -> available should be legal")
	}
	if CanTransitionVehicle(VehicleAvailable, VehicleRented) == false {
		t.Fatal("available -> rented (walk-in pickup) should be legal")
	}
	if CanTransitionVehicle(VehicleOutOfService, VehicleReserved) {
		t.Fatal("out_of_service must only go back to available")
	}
	if !CanTransitionVehicle(VehicleOutOfService, VehicleAvailable) {
		t.Fatal("manual reset out_of_service -> available should be legal")
	}
}

func TestIsTerminalBooking(t *testing.T) {
	if !IsTerminalBooking(BookingCompleted) || !IsTerminalBooking(BookingCancelled) {
		t.Fatal("completed and cancelled are terminal")
	}
	if IsTerminalBooking(BookingActive) {
		t.Fatal("active is not terminal")
	}
}
