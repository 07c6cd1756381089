package naming

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	perr "monreg/internal/platform/errors"
	"monreg/internal/platform/logger"
)

const defaultTimeout = 10 * time.Second

// Options configures the HTTP collaborator client
type Options struct {
	// BaseURL of the collaborator service, e.g. http://tree-registry:8080
	BaseURL string
	Timeout time.Duration
}

// Client talks JSON over HTTP to a collaborator service
// one Client per collaborator, they just differ in BaseURL
type Client struct {
	http *http.Client
	base string
	log  logger.Logger
}

// NewClient creates a collaborator client with sane defaults
func NewClient(o Options) *Client {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		base: o.BaseURL,
		log:  *logger.Named("naming"),
	}
}

// SetSubnodeOwner implements TreeRegistry
func (c *Client) SetSubnodeOwner(ctx context.Context, parent Node, labelHash Node, owner string) error {
	return c.post(ctx, "/subnode-owner", map[string]any{
		"parent":     hex.EncodeToString(parent[:]),
		"label_hash": hex.EncodeToString(labelHash[:]),
		"owner":      owner,
	})
}

// SetResolver implements TreeRegistry
func (c *Client) SetResolver(ctx context.Context, node Node, resolver string) error {
	return c.post(ctx, "/resolver", map[string]any{
		"node":     hex.EncodeToString(node[:]),
		"resolver": resolver,
	})
}

// BindRecords implements Resolver
func (c *Client) BindRecords(ctx context.Context, node Node, resolver string, records []string) error {
	return c.post(ctx, "/records", map[string]any{
		"node":     hex.EncodeToString(node[:]),
		"resolver": resolver,
		"records":  records,
	})
}

// SetName implements ReverseRegistrar
func (c *Client) SetName(ctx context.Context, owner, name string) error {
	return c.post(ctx, "/reverse", map[string]any{
		"owner": owner,
		"name":  name,
	})
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode collaborator payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(raw))
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "build collaborator request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "collaborator unreachable")
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Warn().Err(cerr).Msg("close collaborator response body")
		}
	}()

	if resp.StatusCode >= 300 {
		return perr.Unavailablef("collaborator %s returned %s", path, resp.Status)
	}
	return nil
}
