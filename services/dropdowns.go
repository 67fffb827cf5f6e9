package services

// UnitOptions lists the units offered on line item and material forms.
var UnitOptions = []string{
	"Ea",
	"Ft",
	"Roll",
	"Box",
	"Pkg",
	"Lot",
	"Set",
	"Pair",
	"Hr",
	"Day",
}

// Project status values.
const (
	StatusBid      = "bid"
	StatusAwarded  = "awarded"
	StatusLost     = "lost"
	StatusComplete = "complete"
)

// StatusOptions lists the project statuses in workflow order.
var StatusOptions = []string{StatusBid, StatusAwarded, StatusLost, StatusComplete}

// CategoryOptions returns the category labels for select inputs.
func CategoryOptions() []string {
	out := make([]string, len(Categories))
	for i, c := range Categories {
		out[i] = string(c)
	}
	return out
}
