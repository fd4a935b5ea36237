package services

// ComputeTotal derives the amount charged for a booking.
// A round trip doubles the subtotal; no tax is applied.
func ComputeTotal(pricePerPerson float64, guests int, roundTrip bool) float64 {
	total := pricePerPerson * float64(guests)
	if roundTrip {
		total *= 2
	}
	return total
}
