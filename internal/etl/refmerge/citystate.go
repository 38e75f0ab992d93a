package refmerge

// DefaultCityStates is the static uppercase city→state lookup used when
// neither the transaction row nor the customer master yields a state.
var DefaultCityStates = map[string]string{
	"MUMBAI":        "MAHARASHTRA",
	"PUNE":          "MAHARASHTRA",
	"NAGPUR":        "MAHARASHTRA",
	"NASHIK":        "MAHARASHTRA",
	"THANE":         "MAHARASHTRA",
	"AURANGABAD":    "MAHARASHTRA",
	"PANVEL":        "MAHARASHTRA",
	"BHIWANDI":      "MAHARASHTRA",
	"VASAI":         "MAHARASHTRA",
	"DELHI":         "DELHI",
	"NEW DELHI":     "DELHI",
	"GURGAON":       "HARYANA",
	"NOIDA":         "UTTAR PRADESH",
	"LUCKNOW":       "UTTAR PRADESH",
	"KANPUR":        "UTTAR PRADESH",
	"BANGALORE":     "KARNATAKA",
	"BENGALURU":     "KARNATAKA",
	"CHENNAI":       "TAMIL NADU",
	"HOSUR":         "TAMIL NADU",
	"HYDERABAD":     "TELANGANA",
	"SECUNDERABAD":  "TELANGANA",
	"KOLKATA":       "WEST BENGAL",
	"AHMEDABAD":     "GUJARAT",
	"SURAT":         "GUJARAT",
	"VADODARA":      "GUJARAT",
	"VAPI":          "GUJARAT",
	"RAJKOT":        "GUJARAT",
	"JAIPUR":        "RAJASTHAN",
	"INDORE":        "MADHYA PRADESH",
	"BHOPAL":        "MADHYA PRADESH",
	"CHANDIGARH":    "CHANDIGARH",
}
