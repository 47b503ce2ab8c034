package imagegen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/KirkDiggler/clash-profile-bot/internal"
	apperr "github.com/KirkDiggler/clash-profile-bot/internal/errors"
)

const defaultTimeout = 30 * time.Second

// maxImageBytes caps a single render; Discord rejects larger uploads anyway
const maxImageBytes = 25 << 20

type client struct {
	baseURL    string
	httpClient *http.Client
	duration   *prometheus.HistogramVec
}

type Config struct {
	BaseURL    string
	HttpClient *http.Client

	// Duration, if set, observes request latency labelled by kind and status
	Duration *prometheus.HistogramVec
}

func New(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, internal.NewMissingParamError("cfg")
	}
	if cfg.BaseURL == "" {
		return nil, internal.NewMissingParamError("cfg.BaseURL")
	}

	httpClient := cfg.HttpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		duration:   cfg.Duration,
	}, nil
}

func (c *client) FetchImage(ctx context.Context, kind Kind, sanitizedTag string) (data []byte, err error) {
	switch kind {
	case KindProfile, KindTroops, KindXP:
	default:
		return nil, apperr.InvalidArgumentf("unknown image kind %q", kind)
	}
	if sanitizedTag == "" {
		return nil, apperr.InvalidArgument("tag is required")
	}

	start := time.Now()
	status := "error"
	defer func() {
		if c.duration != nil {
			c.duration.WithLabelValues(string(kind), status).Observe(time.Since(start).Seconds())
		}
	}()

	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, kind, url.PathEscape(sanitizedTag))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperr.WrapWithCode(err, apperr.CodeInternal, "failed to build image request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.WrapWithCode(err, apperr.CodeUnavailable, "image request failed").
			WithMeta("kind", string(kind))
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Unavailablef("image service returned %d for %s", resp.StatusCode, kind).
			WithMeta("kind", string(kind)).
			WithMeta("tag", sanitizedTag)
	}

	data, err = io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, apperr.WrapWithCode(err, apperr.CodeUnavailable, "failed to read image")
	}
	if len(data) == 0 {
		return nil, apperr.Unavailablef("image service returned an empty %s image", kind)
	}

	return data, nil
}
