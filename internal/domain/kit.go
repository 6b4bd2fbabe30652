package domain

// Kit is a construction kit. Parts maps part id to the count of that part
// inside this kit; the count is kit-specific and a nil count means the API
// reported none.
type Kit struct {
	Ticket
	Parts map[int64]*int `json:"parts"`
}
