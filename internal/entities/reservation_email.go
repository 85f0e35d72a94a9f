package entities

// ReservationEmailData feeds the notification templates.
type ReservationEmailData struct {
	UserName      string
	ReservationID int64
	VehicleName   string
	VehiclePlate  string
	StartDate     string
	EndDate       string
	Status        string
	CurrentYear   int
}
