package crm

// Record is one raw transfer row as the CRM returns it. Every field is
// optional; the normalizer branches explicitly on absence instead of relying
// on zero values sneaking through.
type Record struct {
	ID             *string      `json:"Id"`
	BookingRef     *string      `json:"Name"`
	PickupDateTime *string      `json:"Pickup_Date_Time__c"`
	JourneyStatus  *string      `json:"Journey_Status__c"`
	Origin         *string      `json:"Pickup_Location__c"`
	Destination    *string      `json:"Dropoff_Location__c"`
	PickupAddress  *string      `json:"Pickup_Address__c"`
	DropoffAddress *string      `json:"Dropoff_Address__c"`
	PassengerName  *string      `json:"Passenger_Name__c"`
	PassengerCount *int         `json:"Passenger_Count__c"`
	PassengerPhone *string      `json:"Passenger_Phone__c"`
	FlightNumber   *string      `json:"Flight_Number__c"`
	VehicleType    *string      `json:"Vehicle_Type__c"`
	Notes          *string      `json:"Notes__c"`
	Price          *float64     `json:"Price__c"`
	CreatedDate    *string      `json:"CreatedDate"`
	PickupGeo      *Geolocation `json:"Pickup_Geolocation__c"`
	DropoffGeo     *Geolocation `json:"Dropoff_Geolocation__c"`
}

// Geolocation is a compound CRM coordinate field. The CRM can return it with
// either coordinate missing.
type Geolocation struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// RecordsResponse is the envelope of the records endpoint.
type RecordsResponse struct {
	Data []Record `json:"data"`
}

// Summary is the aggregate payload of the summary endpoint.
type Summary struct {
	TotalRecords int     `json:"totalRecords"`
	TotalRevenue float64 `json:"totalRevenue"`
	AccountName  string  `json:"accountName,omitempty"`
}

// SummaryResponse is the envelope of the summary endpoint.
type SummaryResponse struct {
	Status string  `json:"status"`
	Data   Summary `json:"data"`
}
