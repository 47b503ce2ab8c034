package clash

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/KirkDiggler/clash-profile-bot/internal"
	apperr "github.com/KirkDiggler/clash-profile-bot/internal/errors"
	"github.com/KirkDiggler/clash-profile-bot/internal/entities"
)

const defaultTimeout = 10 * time.Second

type client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Config struct {
	BaseURL    string
	Token      string
	HttpClient *http.Client
}

func New(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, internal.NewMissingParamError("cfg")
	}
	if cfg.BaseURL == "" {
		return nil, internal.NewMissingParamError("cfg.BaseURL")
	}
	if cfg.Token == "" {
		return nil, internal.NewMissingParamError("cfg.Token")
	}

	httpClient := cfg.HttpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: httpClient,
	}, nil
}

func (c *client) FindPlayer(ctx context.Context, tag string) (*LookupResult, error) {
	if tag == "" {
		return nil, apperr.InvalidArgument("tag is required")
	}

	endpoint := fmt.Sprintf("%s/players/%s", c.baseURL, url.PathEscape(entities.DisplayTag(tag)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperr.WrapWithCode(err, apperr.CodeInternal, "failed to build lookup request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.WrapWithCode(err, apperr.CodeUnavailable, "player lookup failed").
			WithMeta("tag", tag)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.WrapWithCode(err, apperr.CodeUnavailable, "failed to read lookup response")
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &LookupResult{Found: false}, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, apperr.Unavailablef("lookup api returned %d: %s", resp.StatusCode, errorReason(body)).
			WithMeta("tag", tag).
			WithMeta("status", resp.StatusCode)
	}

	player := &entities.Player{}
	if err := json.Unmarshal(body, player); err != nil {
		return nil, apperr.WrapWithCode(err, apperr.CodeUnavailable, "failed to decode player")
	}

	return &LookupResult{Found: true, Player: player}, nil
}

// errorReason extracts a human-readable reason from an API error body
func errorReason(body []byte) string {
	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body))
	}

	result := gjson.GetManyBytes(body, "message", "reason")
	for _, r := range result {
		if r.String() != "" {
			return r.String()
		}
	}
	return "unknown error"
}
