package db

// DefaultJobTypes are inserted by the seed command.
var DefaultJobTypes = []string{
	"Plumbing",
	"Electrical",
	"Carpentry",
	"Painting",
	"Cleaning",
	"Landscaping",
	"HVAC",
	"Roofing",
	"Pest Control",
	"Locksmith",
}
