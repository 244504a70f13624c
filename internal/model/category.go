package model

import "strings"

// Categories is the closed, ordered set of expense categories.
var Categories = []string{
	"Groceries", "Vegetables", "Milk", "Fruits", "Bakery", "DiningOut", "Snacks",
	"Fuel", "PublicTransport", "Cab", "VehicleMaintenance", "Parking", "Toll",
	"Rent", "Electricity", "Water", "Gas", "Internet", "MobileRecharge", "Maintenance", "HouseHelp",
	"Clothing", "Footwear", "Electronics", "Furniture", "OnlineShopping",
	"Doctor", "Medicine", "Hospital", "HealthInsurance",
	"SchoolFees", "CollegeFees", "Books", "Coaching", "OnlineCourses",
	"Entertainment", "Movies", "Subscriptions", "Gym", "Salon", "PersonalCare",
	"EMI", "LoanRepayment", "Insurance", "Tax",
	"Gifts", "Donations", "Functions", "Festivals", "Miscellaneous",
}

var categorySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Categories))
	for _, c := range Categories {
		m[c] = struct{}{}
	}
	return m
}()

// IsValidCategory reports whether c is one of Categories. Matching is exact.
func IsValidCategory(c string) bool {
	_, ok := categorySet[c]
	return ok
}

// CategoryList joins Categories for error messages.
func CategoryList() string {
	return strings.Join(Categories, ", ")
}
