package domain

// Booking status values.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingActive    = "active"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// Vehicle availability values.
const (
	VehicleAvailable     = "available"
	VehicleReserved      = "reserved"
	VehicleRented        = "rented"
	VehicleInMaintenance = "in_maintenance"
	VehicleOutOfService  = "out_of_service"
)

// bookingTransitions is the directed graph of legal booking status moves.
var bookingTransitions = map[string][]string{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingActive, BookingCancelled},
	BookingActive:    {BookingCompleted, BookingCancelled},
	BookingCompleted: {},
	BookingCancelled: {},
}

// vehicleTransitions mirrors the availability machine. out_of_service is
// terminal until a manual reset, which is modeled as its only outgoing edge.
var vehicleTransitions = map[string][]string{
	VehicleAvailable:     {VehicleReserved, VehicleRented, VehicleInMaintenance, VehicleOutOfService},
	VehicleReserved:      {VehicleRented, VehicleAvailable, VehicleInMaintenance, VehicleOutOfService},
	VehicleRented:        {VehicleAvailable, VehicleInMaintenance, VehicleOutOfService},
	VehicleInMaintenance: {VehicleAvailable, VehicleOutOfService},
	VehicleOutOfService:  {VehicleAvailable},
}

func CanTransitionBooking(from, to string) bool {
	return canTransition(bookingTransitions, from, to)
}

func CanTransitionVehicle(from, to string) bool {
	return canTransition(vehicleTransitions, from, to)
}

func canTransition(graph map[string][]string, from, to string) bool {
	if from == to {
		return false
	}
	allowed, ok := graph[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminalBooking reports whether a booking can no longer move.
func IsTerminalBooking(status string) bool {
	return status == BookingCompleted || status == BookingCancelled
}
