// Package alquran is a client for the api.alquran.cloud verse, audio and commentary endpoints.
package alquran

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrFetchFailed reports a transport error or a non-success response.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrNotFound reports a successful response without content.
	ErrNotFound = errors.New("not found")
	// ErrInvalidChapter reports a chapter number outside 1..114.
	ErrInvalidChapter = errors.New("invalid chapter number")
)

const (
	DefaultBaseURL           = "https://api.alquran.cloud/v1"
	DefaultAudioCDNURL       = "https://cdn.islamic.network/quran/audio"
	DefaultAudioBitrate      = 128
	DefaultTextEdition       = "quran-uthmani"
	DefaultCommentaryEdition = "ar.muyassar"
	DefaultTimeout           = 30 * time.Second
)

// Options configures the client. Zero values are replaced with defaults.
type Options struct {
	BaseURL           string
	AudioCDNURL       string
	AudioBitrate      int
	TextEdition       string
	CommentaryEdition string
	Timeout           time.Duration
}

func (o *Options) defaults() {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.AudioCDNURL == "" {
		o.AudioCDNURL = DefaultAudioCDNURL
	}
	if o.AudioBitrate <= 0 {
		o.AudioBitrate = DefaultAudioBitrate
	}
	if o.TextEdition == "" {
		o.TextEdition = DefaultTextEdition
	}
	if o.CommentaryEdition == "" {
		o.CommentaryEdition = DefaultCommentaryEdition
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
}

// Client talks to the remote Quran API.
type Client struct {
	baseURL           string
	audioCDNURL       string
	audioBitrate      int
	textEdition       string
	commentaryEdition string
	logger            *zap.Logger
	do                func(*http.Request) (*http.Response, error)
}

// NewClient creates a client with its own http.Client.
func NewClient(opts Options, logger *zap.Logger) *Client {
	opts.defaults()
	hc := &http.Client{Timeout: opts.Timeout}

	return &Client{
		baseURL:           strings.TrimRight(opts.BaseURL, "/"),
		audioCDNURL:       strings.TrimRight(opts.AudioCDNURL, "/"),
		audioBitrate:      opts.AudioBitrate,
		textEdition:       opts.TextEdition,
		commentaryEdition: opts.CommentaryEdition,
		logger:            logger,
		do:                hc.Do,
	}
}

// envelope is the common response wrapper of the API.
type envelope struct {
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// get performs a GET request for path and returns the HTTP status and decoded envelope.
// The envelope is nil when the body is not JSON.
func (c *Client) get(ctx context.Context, path string) (int, *envelope, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: build request: %v", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: GET %s: %v", ErrFetchFailed, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: read %s: %v", ErrFetchFailed, path, err)
	}

	c.logger.Debug("quran api request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return resp.StatusCode, nil, nil
	}

	return resp.StatusCode, &env, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
