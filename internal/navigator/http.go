package navigator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/pfrederiksen/teesheet-sync/internal/models"
)

const (
	UserAgent = "teesheet-sync/1.0 (github.com/pfrederiksen/teesheet-sync)"
	Timeout   = 30 * time.Second
)

// HTTPConfig configures an HTTP navigator
type HTTPConfig struct {
	// SheetURL serves the rendered tee sheet; the day is passed as ?date=YYYY-MM-DD.
	SheetURL string

	// LoginURL accepts a form post of username and password. Optional.
	LoginURL string
	Username string
	Password string
}

// HTTP fetches a server-rendered tee sheet behind a session cookie
type HTTP struct {
	cfg    HTTPConfig
	client *http.Client
	now    func() time.Time

	selected string
	markup   string
}

// NewHTTP creates an HTTP navigator
func NewHTTP(cfg HTTPConfig) (*HTTP, error) {
	if cfg.SheetURL == "" {
		return nil, fmt.Errorf("tee sheet URL is required")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	return &HTTP{
		cfg: cfg,
		client: &http.Client{
			Timeout: Timeout,
			Jar:     jar,
		},
		now: time.Now,
	}, nil
}

// Open logs in when a login URL is configured
func (h *HTTP) Open(ctx context.Context) error {
	if h.cfg.LoginURL == "" {
		return nil
	}

	form := url.Values{}
	form.Set("username", h.cfg.Username)
	form.Set("password", h.cfg.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.cfg.LoginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: unexpected status code: %d", resp.StatusCode)
	}

	return nil
}

// SelectDay fetches the tee sheet for the next occurrence of weekday
func (h *HTTP) SelectDay(ctx context.Context, weekday time.Weekday) (string, error) {
	date := NextWeekday(h.now(), weekday).Format(models.DateLayout)

	sheetURL, err := url.Parse(h.cfg.SheetURL)
	if err != nil {
		return "", fmt.Errorf("parsing tee sheet URL: %w", err)
	}
	q := sheetURL.Query()
	q.Set("date", date)
	sheetURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sheetURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching tee sheet: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s %s", ErrDayNotFound, weekday, date)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading tee sheet: %w", err)
	}

	h.selected = date
	h.markup = string(body)
	return date, nil
}

// Markup returns the last fetched tee sheet
func (h *HTTP) Markup(ctx context.Context) (string, error) {
	if h.selected == "" {
		return "", fmt.Errorf("no day selected")
	}
	return h.markup, nil
}

// Close drops idle connections
func (h *HTTP) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
