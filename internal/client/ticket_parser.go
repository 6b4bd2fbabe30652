package client

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"ftdb/dump/internal/domain"
)

// ticketParser normalizes raw API tickets into their canonical shape.
type ticketParser struct {
	baseURL string
}

func newTicketParser(baseURL string) *ticketParser {
	return &ticketParser{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// apiTicketURL is the canonical API address of a ticket. The public URL is
// derived from it by stripping the /api segment; keep the two in lock-step.
func apiTicketURL(baseURL string, ticketID int64) string {
	return fmt.Sprintf("%s/api/ticket/%d", baseURL, ticketID)
}

// ParseCommon maps the fields shared by kits and parts.
func (p *ticketParser) ParseCommon(raw *domain.RawTicket) (domain.Ticket, error) {
	nums, err := parseArticleNumbers(raw.ArticleNos)
	if err != nil {
		return domain.Ticket{}, err
	}

	apiURL := apiTicketURL(p.baseURL, raw.TicketID)
	ticket := domain.Ticket{
		ID:             raw.TicketID,
		Created:        strings.ReplaceAll(raw.CreatedUTC, " ", "T"),
		Title:          raw.Title,
		ArticleNumbers: nums,
		UUID:           raw.VariantUUID,
		URLAPI:         apiURL,
		URL:            strings.Replace(apiURL, "/api", "", 1),
	}

	if raw.Icon != "" {
		ticket.ThumbnailURL = fmt.Sprintf("%s/thumbnail/%s", p.baseURL, raw.Icon)
	}

	return ticket, nil
}

// ParseKit normalizes a kit ticket. Parts starts empty; the parts walk fills
// it in afterwards.
func (p *ticketParser) ParseKit(raw *domain.RawTicket) (*domain.Kit, error) {
	common, err := p.ParseCommon(raw)
	if err != nil {
		return nil, err
	}

	return &domain.Kit{
		Ticket: common,
		Parts:  make(map[int64]*int),
	}, nil
}

// ParsePart normalizes a part ticket. The count stays off the part record
// and is returned separately, since it belongs to the enclosing kit.
func (p *ticketParser) ParsePart(raw *domain.RawTicket) (domain.KitPart, error) {
	common, err := p.ParseCommon(raw)
	if err != nil {
		return domain.KitPart{}, err
	}

	count, err := parseCount(raw.Count)
	if err != nil {
		return domain.KitPart{}, err
	}

	return domain.KitPart{
		Part: &domain.Part{
			Ticket: common,
			Weight: raw.Weight,
		},
		Count: count,
	}, nil
}

// parseArticleNumbers decodes the second JSON layer inside ft_article_nos, a
// list of (article number, year) pairs. A null article number becomes the ""
// key: JSON object keys must be strings, so the substitution is explicit
// instead of dropping the entry. Null years become "" the same way.
func parseArticleNumbers(raw *string) (map[string]string, error) {
	if raw == nil || *raw == "[]" {
		return map[string]string{}, nil
	}

	var pairs [][2]*string
	if err := json.Unmarshal([]byte(*raw), &pairs); err != nil {
		return nil, fmt.Errorf("malformed ft_article_nos %q: %w", *raw, err)
	}

	nums := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		var number, year string
		if pair[0] != nil {
			number = *pair[0]
		}
		if pair[1] != nil {
			year = *pair[1]
		}
		nums[number] = year
	}

	return nums, nil
}

// parseCount reads ft_count, which the API serves as a number, a quoted
// number, null, or not at all. Null, missing, empty and numeric zero mean no
// count.
func parseCount(raw json.RawMessage) (*int, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil, nil
	}

	if s[0] == '"' {
		var quoted string
		if err := json.Unmarshal(raw, &quoted); err != nil {
			return nil, fmt.Errorf("malformed ft_count %s: %w", s, err)
		}
		if strings.TrimSpace(quoted) == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(quoted))
		if err != nil {
			return nil, fmt.Errorf("malformed ft_count %q: %w", quoted, err)
		}
		return &n, nil
	}

	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("malformed ft_count %s: %w", s, err)
	}
	if n == 0 {
		return nil, nil
	}
	return &n, nil
}
