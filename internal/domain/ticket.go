package domain

import "encoding/json"

// PageEnvelope is the pagination envelope every ft-datenbank endpoint wraps
// its payload in. Results is an array on listing endpoints and a single
// object on the ticket detail endpoint, so it is decoded by the caller.
type PageEnvelope struct {
	Status  string          `json:"status"`
	Pages   int             `json:"cPages"`
	Total   int             `json:"cTotal"`
	Results json.RawMessage `json:"results"`
}

// StatusOK is the only status value a response may carry.
const StatusOK = "OK"

// RawTicket is one result record as served by the API, before normalization.
// ft_article_nos is a second layer of JSON serialized as a string; ft_count
// arrives either as a number or a quoted string and is parsed later.
type RawTicket struct {
	TicketID    int64           `json:"ticket_id"`
	CreatedUTC  string          `json:"createdUTC"`
	Title       string          `json:"title"`
	ArticleNos  *string         `json:"ft_article_nos"`
	VariantUUID *string         `json:"ft_variant_uuid"`
	Icon        string          `json:"ft_icon"`
	Categories  []string        `json:"ft_cat_all"`
	Weight      *float64        `json:"ft_weight"`
	Count       json.RawMessage `json:"ft_count"`
}

// Ticket holds the canonical fields shared by kits and parts.
type Ticket struct {
	ID             int64             `json:"id"`
	Created        string            `json:"created"`
	Title          string            `json:"title"`
	ArticleNumbers map[string]string `json:"article_numbers"`
	UUID           *string           `json:"uuid"`
	URLAPI         string            `json:"url_api"`
	URL            string            `json:"url"`
	// ThumbnailURL is absent when the ticket has no icon; presence is the
	// signal for downstream tools to attempt a fetch.
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}
