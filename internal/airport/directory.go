package airport

// Airport is one entry of the static directory shipped with the service.
type Airport struct {
	City             string
	AirportName      string
	Country          string
	AlternativeNames []string
}

// Directory maps IATA code to airport details. The data is static by design;
// sourcing airports from an external feed is out of scope.
var Directory = map[string]Airport{
	"DEL": {City: "New Delhi", AirportName: "Indira Gandhi International Airport", Country: "India", AlternativeNames: []string{"Delhi", "IGI"}},
	"BOM": {City: "Mumbai", AirportName: "Chhatrapati Shivaji Maharaj International Airport", Country: "India", AlternativeNames: []string{"Bombay"}},
	"BLR": {City: "Bengaluru", AirportName: "Kempegowda International Airport", Country: "India", AlternativeNames: []string{"Bangalore"}},
	"MAA": {City: "Chennai", AirportName: "Chennai International Airport", Country: "India", AlternativeNames: []string{"Madras"}},
	"CCU": {City: "Kolkata", AirportName: "Netaji Subhas Chandra Bose International Airport", Country: "India", AlternativeNames: []string{"Calcutta"}},
	"HYD": {City: "Hyderabad", AirportName: "Rajiv Gandhi International Airport", Country: "India", AlternativeNames: []string{"Shamshabad"}},
	"COK": {City: "Kochi", AirportName: "Cochin International Airport", Country: "India", AlternativeNames: []string{"Cochin"}},
	"GOI": {City: "Goa", AirportName: "Dabolim Airport", Country: "India", AlternativeNames: []string{"Dabolim", "Vasco da Gama"}},
	"PNQ": {City: "Pune", AirportName: "Pune Airport", Country: "India", AlternativeNames: []string{"Lohegaon"}},
	"AMD": {City: "Ahmedabad", AirportName: "Sardar Vallabhbhai Patel International Airport", Country: "India"},
	"JAI": {City: "Jaipur", AirportName: "Jaipur International Airport", Country: "India"},
	"LKO": {City: "Lucknow", AirportName: "Chaudhary Charan Singh International Airport", Country: "India"},
	"DXB": {City: "Dubai", AirportName: "Dubai International Airport", Country: "United Arab Emirates"},
	"SIN": {City: "Singapore", AirportName: "Singapore Changi Airport", Country: "Singapore", AlternativeNames: []string{"Changi"}},
	"KUL": {City: "Kuala Lumpur", AirportName: "Kuala Lumpur International Airport", Country: "Malaysia", AlternativeNames: []string{"KLIA"}},
	"BKK": {City: "Bangkok", AirportName: "Suvarnabhumi Airport", Country: "Thailand", AlternativeNames: []string{"Suvarnabhumi"}},
	"CGK": {City: "Jakarta", AirportName: "Soekarno-Hatta International Airport", Country: "Indonesia", AlternativeNames: []string{"Cengkareng"}},
	"LHR": {City: "London", AirportName: "Heathrow Airport", Country: "United Kingdom", AlternativeNames: []string{"Heathrow"}},
	"JFK": {City: "New York", AirportName: "John F. Kennedy International Airport", Country: "United States", AlternativeNames: []string{"Kennedy", "Idlewild"}},
	"SFO": {City: "San Francisco", AirportName: "San Francisco International Airport", Country: "United States"},
	"SYD": {City: "Sydney", AirportName: "Sydney Kingsford Smith Airport", Country: "Australia", AlternativeNames: []string{"Kingsford Smith"}},
	"HND": {City: "Tokyo", AirportName: "Haneda Airport", Country: "Japan", AlternativeNames: []string{"Haneda"}},
}

// ByCode returns the directory entry for an IATA code, if present.
func ByCode(code string) (Airport, bool) {
	a, ok := Directory[code]
	return a, ok
}
