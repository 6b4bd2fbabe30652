package domain

// Part is a single component shared across kits. It carries no count field:
// the same part appears in different kits with different counts, which live
// in each Kit.Parts mapping.
type Part struct {
	Ticket
	Weight *float64 `json:"weight"`
}

// KitPart pairs a normalized part with the count the enclosing kit listed it
// with. It only exists between the parts walk and the merge into a snapshot.
type KitPart struct {
	Part  *Part
	Count *int
}
