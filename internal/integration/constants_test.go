package integration_test

// The fixture migration seeds two showtimes: showtime 1 has rows A-C by four
// columns with row C priced as premium, showtime 2 has rows A-B by four
// columns with B4 blocked.
const (
	TestShowtimeID   = 1
	SecondShowtimeID = 2

	AdultTicketTypeID  = 1
	ChildTicketTypeID  = 2
	SeniorTicketTypeID = 3

	StandardSeatPrice = "12.50"
	PremiumSeatPrice  = "18.00"
)
