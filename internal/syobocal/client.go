// Package syobocal is a client for the Syoboi Calendar db.php interface.
// It exposes channel, program and title lookups and can eagerly join
// channel and title records onto fetched programs.
package syobocal

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
)

const DefaultBaseURL = "https://cal.syoboi.jp"

const defaultUserAgent = "anime-today/1.0"

const rangeLayout = "20060102_150405"

type Client struct {
	http      *http.Client
	baseURL   *url.URL
	userAgent string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if u, err := url.Parse(raw); err == nil {
			c.baseURL = u
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func New(opts ...Option) *Client {
	u, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		http:      http.DefaultClient,
		baseURL:   u,
		userAgent: defaultUserAgent,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FetchChannels returns every channel known upstream.
func (c *Client) FetchChannels(ctx context.Context) ([]Channel, error) {
	params := url.Values{}
	params.Set("Command", "ChLookup")

	var resp chLookupResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	if err := resp.Result.err("ChLookup"); err != nil {
		return nil, err
	}

	channels := make([]Channel, 0, len(resp.Items))
	for _, it := range resp.Items {
		channels = append(channels, it.channel())
	}
	return channels, nil
}

// FetchPrograms returns programs matching q, with channel and title
// records attached for each requested include. Options with absent
// values are left out of the upstream request.
func (c *Client) FetchPrograms(ctx context.Context, q ProgramQuery) ([]Program, error) {
	params := url.Values{}
	params.Set("Command", "ProgLookup")
	params.Set("JOIN", "SubTitles")
	if !q.PlayedFrom.IsZero() && !q.PlayedTo.IsZero() {
		params.Set("Range", q.PlayedFrom.In(jst).Format(rangeLayout)+"-"+q.PlayedTo.In(jst).Format(rangeLayout))
	}
	if q.ChannelID != "" {
		params.Set("ChID", q.ChannelID)
	}

	var resp progLookupResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	if err := resp.Result.err("ProgLookup"); err != nil {
		return nil, err
	}

	programs := make([]Program, 0, len(resp.Items))
	for _, it := range resp.Items {
		programs = append(programs, it.program())
	}

	for _, inc := range q.Includes {
		switch inc {
		case IncludeChannel:
			if err := c.attachChannels(ctx, programs); err != nil {
				return nil, err
			}
		case IncludeTitle:
			if err := c.attachTitles(ctx, programs); err != nil {
				return nil, err
			}
		}
	}
	return programs, nil
}

func (c *Client) attachChannels(ctx context.Context, programs []Program) error {
	if len(programs) == 0 {
		return nil
	}
	channels, err := c.FetchChannels(ctx)
	if err != nil {
		return err
	}
	byID := make(map[int]*Channel, len(channels))
	for i := range channels {
		byID[channels[i].ID] = &channels[i]
	}
	for i := range programs {
		programs[i].Channel = byID[programs[i].ChannelID]
	}
	return nil
}

func (c *Client) attachTitles(ctx context.Context, programs []Program) error {
	if len(programs) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(programs))
	ids := make([]string, 0, len(programs))
	for _, p := range programs {
		if !seen[p.TitleID] {
			seen[p.TitleID] = true
			ids = append(ids, strconv.Itoa(p.TitleID))
		}
	}

	params := url.Values{}
	params.Set("Command", "TitleLookup")
	params.Set("TID", strings.Join(ids, ","))

	var resp titleLookupResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return err
	}
	if err := resp.Result.err("TitleLookup"); err != nil {
		return err
	}

	byID := make(map[int]*Title, len(resp.Items))
	for _, it := range resp.Items {
		t := it.title()
		byID[t.ID] = &t
	}
	for i := range programs {
		programs[i].Title = byID[programs[i].TitleID]
	}
	return nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	u := *c.baseURL
	u.Path = path.Join(u.Path, "db.php")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", params.Get("Command"), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("GET %s: %s: %s", params.Get("Command"), resp.Status, strings.TrimSpace(string(b)))
	}
	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", params.Get("Command"), err)
	}
	return nil
}
