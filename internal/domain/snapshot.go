package domain

// Snapshot is the single document a run produces. Every part id referenced
// from any Kit.Parts key has an entry in Parts.
type Snapshot struct {
	Kits  map[int64]*Kit  `json:"kits"`
	Parts map[int64]*Part `json:"parts"`
}

// NewSnapshot returns an empty snapshot ready to accumulate kits and parts.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Kits:  make(map[int64]*Kit),
		Parts: make(map[int64]*Part),
	}
}
