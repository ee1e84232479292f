package tally

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	companiesCollectionID = "List of Companies"
	ledgerSearchID        = "Ledger Search"
	searchFilterName      = "SearchFilter"
	nameField             = "NAME"
)

// Options configures a Client. All values come from the caller; the
// client never reads files or the environment.
type Options struct {
	Endpoint string
	Timeout  time.Duration
	Dialect  Dialect
	Company  string
}

// Client runs the ERP query flows: build an envelope, post it, extract
// records. Each call owns its spec, envelope, and response buffer, so
// concurrent calls share nothing but the underlying connection pool.
type Client struct {
	transport *Transport
	dialect   Dialect
	company   string
}

func NewClient(opts Options) *Client {
	dialect := opts.Dialect
	if dialect == nil {
		dialect = DefaultDialect
	}
	return &Client{
		transport: NewTransport(opts.Endpoint, opts.Timeout),
		dialect:   dialect,
		company:   opts.Company,
	}
}

// ListCompanies fetches the flat company listing and returns up to
// limit company names in response order.
func (c *Client) ListCompanies(ctx context.Context, limit int) ([]string, error) {
	header := HeaderSpec{
		Request:    KindExport,
		TargetType: "Collection",
		TargetID:   companiesCollectionID,
	}
	body := BodySpec{Company: c.company}
	return c.queryNames(ctx, "companies", header, body, RecordPattern{
		Entity: "COMPANY",
		Fields: []string{nameField},
	}, limit)
}

// SearchLedgers runs a filtered ledger collection query matching
// ledger names that contain needle, encoded in the configured dialect,
// and returns up to limit ledger names.
func (c *Client) SearchLedgers(ctx context.Context, needle string, limit int) ([]string, error) {
	expr, err := EncodeClause(c.dialect, FilterClause{
		Name:      searchFilterName,
		FieldPath: "$Name",
		Operator:  OpContains,
		Literal:   needle,
	})
	if err != nil {
		return nil, err
	}
	header := HeaderSpec{
		Request:    KindExport,
		TargetType: "Collection",
		TargetID:   ledgerSearchID,
	}
	body := BodySpec{
		Company: c.company,
		Collection: &CollectionSpec{
			ObjectType:  "Ledger",
			Projections: []string{nameField},
			FilterRefs:  []string{searchFilterName},
			Formulas:    []Formula{{Name: searchFilterName, Expr: expr}},
		},
	}
	return c.queryNames(ctx, "ledgers", header, body, RecordPattern{
		Entity: "LEDGER",
		Fields: []string{nameField},
	}, limit)
}

func (c *Client) queryNames(ctx context.Context, kind string, header HeaderSpec, body BodySpec, pat RecordPattern, limit int) ([]string, error) {
	rid := uuid.NewString()
	envelope, warnings, err := BuildEnvelope(header, body)
	if err != nil {
		return nil, err
	}
	for _, orphan := range warnings {
		log.Warn().Str("rid", rid).Str("query", kind).
			Str("formula", orphan).Msg("tally: orphan formula definition")
	}

	log.Debug().Str("rid", rid).Str("query", kind).
		Str("endpoint", c.transport.Endpoint()).
		Str("dialect", c.dialect.Name()).
		Msg("tally: sending collection query")

	response, err := c.transport.Send(ctx, envelope)
	if err != nil {
		log.Error().Str("rid", rid).Str("query", kind).
			Str("endpoint", c.transport.Endpoint()).Err(err).
			Msg("tally: query failed")
		return nil, err
	}

	records := ExtractRecords(response, pat, limit)
	names := make([]string, 0, len(records))
	for _, record := range records {
		if name, ok := record.Fields[nameField]; ok && name != "" {
			names = append(names, name)
		}
	}
	log.Debug().Str("rid", rid).Str("query", kind).
		Int("records", len(names)).Msg("tally: query complete")
	return names, nil
}
