package entity

// PriceBreakdown is the priced form of a stay. Stored reservations carry the
// same numbers in their snapshot columns.
type PriceBreakdown struct {
	Nights          int
	PricePerNight   Money
	Subtotal        Money
	CleaningFee     Money
	ServiceFee      Money
	SecurityDeposit Money
	Total           Money
}
