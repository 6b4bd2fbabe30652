package client

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"ftdb/dump/internal/config"
	"ftdb/dump/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

type FTDBClient interface {
	ListKitIDs(ctx context.Context) ([]int64, error)
	GetKit(ctx context.Context, ticketID int64) (*domain.Kit, error)
	GetKitParts(ctx context.Context, kitID int64) ([]domain.KitPart, error)
}

type ftdbClient struct {
	rl         ratelimit.Limiter
	config     config.FTDBConfig
	baseURL    string
	httpClient *resty.Client
	parser     *ticketParser
}

func NewFTDBClient(cfg config.FTDBConfig) FTDBClient {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(2*time.Second).
		SetRetryMaxWaitTime(10*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "ftdb-dump/1.0")

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	return &ftdbClient{
		rl:         rl,
		config:     cfg,
		baseURL:    baseURL,
		httpClient: client,
		parser:     newTicketParser(baseURL),
	}
}

// ListKitIDs walks the construction-kit listing and returns the ticket ids of
// all kits not carrying the excluded category.
func (c *ftdbClient) ListKitIDs(ctx context.Context) ([]int64, error) {
	url := fmt.Sprintf("%s/api/tickets?drill_ft_cat_all=%s", c.baseURL, c.config.KitCategory)

	tickets, err := c.fetchPages(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to list kit tickets: %w", err)
	}

	ids := make([]int64, 0, len(tickets))
	for _, t := range tickets {
		if slices.Contains(t.Categories, c.config.ExcludedCategory) {
			log.Debugf("Skipping ticket %d with excluded category %s", t.TicketID, c.config.ExcludedCategory)
			continue
		}
		ids = append(ids, t.TicketID)
	}

	log.Debugf("Listed %d kit tickets", len(ids))
	return ids, nil
}

// GetKit fetches one ticket detail record and normalizes it. The parts
// mapping starts empty and is filled in by a later parts walk.
func (c *ftdbClient) GetKit(ctx context.Context, ticketID int64) (*domain.Kit, error) {
	url := apiTicketURL(c.baseURL, ticketID)

	env, err := c.fetchEnvelope(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticket %d: %w", ticketID, err)
	}

	// The detail endpoint puts a single object in results.
	var raw domain.RawTicket
	if err := json.Unmarshal(env.Results, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode ticket %d: %w", ticketID, err)
	}

	kit, err := c.parser.ParseKit(&raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ticket %d: %w", ticketID, err)
	}

	log.Debugf("Resolved kit %d (%s)", kit.ID, kit.Title)
	return kit, nil
}

// GetKitParts walks the parts listing of one kit and returns every part
// together with its kit-specific count. A kit without parts yields nil.
func (c *ftdbClient) GetKitParts(ctx context.Context, kitID int64) ([]domain.KitPart, error) {
	url := fmt.Sprintf("%s/api/ft-partslist/%d", c.baseURL, kitID)

	tickets, err := c.fetchPages(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parts of kit %d: %w", kitID, err)
	}

	parts := make([]domain.KitPart, 0, len(tickets))
	for i := range tickets {
		kp, err := c.parser.ParsePart(&tickets[i])
		if err != nil {
			return nil, fmt.Errorf("failed to parse part of kit %d: %w", kitID, err)
		}
		parts = append(parts, kp)
	}

	return parts, nil
}

// fetchPages walks every page of a paginated endpoint in ascending order.
// The initial request only learns the page and total counts; its results are
// discarded and page 1 is fetched again, matching the API's paging contract.
// A reported total of zero means no pages at all.
func (c *ftdbClient) fetchPages(ctx context.Context, url string) ([]domain.RawTicket, error) {
	probe, err := c.fetchEnvelope(ctx, url)
	if err != nil {
		return nil, err
	}
	if probe.Total == 0 {
		return nil, nil
	}

	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}

	var tickets []domain.RawTicket
	for page := 1; page <= probe.Pages; page++ {
		env, err := c.fetchEnvelope(ctx, fmt.Sprintf("%s%spage=%d", url, sep, page))
		if err != nil {
			return nil, err
		}

		var batch []domain.RawTicket
		if err := json.Unmarshal(env.Results, &batch); err != nil {
			return nil, fmt.Errorf("failed to decode results of %s page %d: %w", url, page, err)
		}
		tickets = append(tickets, batch...)
	}

	log.Debugf("Fetched %d tickets across %d pages from %s", len(tickets), probe.Pages, url)
	return tickets, nil
}

// fetchEnvelope performs one rate-limited GET and gates the response on the
// API status marker. Any status other than "OK" is fatal for the caller.
func (c *ftdbClient) fetchEnvelope(ctx context.Context, url string) (*domain.PageEnvelope, error) {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, &domain.TransportError{URL: url, Err: err}
	}

	if resp.IsError() {
		return nil, &domain.TransportError{URL: url, StatusCode: resp.StatusCode()}
	}

	var env domain.PageEnvelope
	if err := json.Unmarshal(resp.Bytes(), &env); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", url, err)
	}

	if env.Status != domain.StatusOK {
		return nil, &domain.RemoteAPIError{URL: url, Status: env.Status}
	}

	return &env, nil
}
