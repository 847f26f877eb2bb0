package navigator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/teesheet-sync/internal/models"
)

// Wednesday
var today = time.Date(2026, 10, 14, 15, 4, 0, 0, time.UTC)

func TestNextWeekday(t *testing.T) {
	tests := []struct {
		name    string
		today   time.Time
		weekday time.Weekday
		want    string
	}{
		{name: "Saturday from Wednesday", today: today, weekday: time.Saturday, want: "2026-10-17"},
		{name: "Sunday from Wednesday", today: today, weekday: time.Sunday, want: "2026-10-18"},
		{name: "same weekday goes a week out", today: today, weekday: time.Wednesday, want: "2026-10-21"},
		{name: "Saturday from Saturday", today: time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC), weekday: time.Saturday, want: "2026-10-24"},
		{name: "Sunday from Saturday", today: time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC), weekday: time.Sunday, want: "2026-10-18"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextWeekday(tt.today, tt.weekday).Format(models.DateLayout)
			if got != tt.want {
				t.Errorf("NextWeekday() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDir(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "2026-10-17.html"), []byte("<table></table>"), 0644); err != nil {
		t.Fatal(err)
	}

	nav := NewDir(tmpDir)
	nav.now = func() time.Time { return today }

	if err := nav.Open(ctx); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer nav.Close()

	if _, err := nav.Markup(ctx); err == nil {
		t.Error("Markup() before SelectDay should fail")
	}

	date, err := nav.SelectDay(ctx, time.Saturday)
	if err != nil {
		t.Fatalf("SelectDay(Saturday) error = %v", err)
	}
	if date != "2026-10-17" {
		t.Errorf("SelectDay() = %s, want 2026-10-17", date)
	}
	markup, err := nav.Markup(ctx)
	if err != nil || markup != "<table></table>" {
		t.Errorf("Markup() = (%q, %v)", markup, err)
	}

	_, err = nav.SelectDay(ctx, time.Sunday)
	if !errors.Is(err, ErrDayNotFound) {
		t.Errorf("SelectDay(Sunday) error = %v, want ErrDayNotFound", err)
	}
}

func TestDir_OpenMissing(t *testing.T) {
	nav := NewDir(filepath.Join(t.TempDir(), "missing"))
	if err := nav.Open(context.Background()); err == nil {
		t.Error("Open() on missing directory should fail")
	}
}

func TestHTTP(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "teesheet-sync") {
			t.Errorf("User-Agent = %q, should contain 'teesheet-sync'", ua)
		}

		switch r.URL.Path {
		case "/login":
			if err := r.ParseForm(); err != nil {
				t.Errorf("ParseForm() error = %v", err)
			}
			if r.PostForm.Get("username") != "member" || r.PostForm.Get("password") != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "ok", Path: "/"})
			w.WriteHeader(http.StatusOK)
		case "/teesheet":
			if c, err := r.Cookie("session"); err != nil || c.Value != "ok" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			switch r.URL.Query().Get("date") {
			case "2026-10-17":
				w.Write([]byte("saturday sheet"))
			case "2026-10-18":
				w.WriteHeader(http.StatusNotFound)
			default:
				w.WriteHeader(http.StatusInternalServerError)
			}
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	nav, err := NewHTTP(HTTPConfig{
		SheetURL: server.URL + "/teesheet",
		LoginURL: server.URL + "/login",
		Username: "member",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("NewHTTP() error = %v", err)
	}
	nav.now = func() time.Time { return today }
	defer nav.Close()

	if err := nav.Open(ctx); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	date, err := nav.SelectDay(ctx, time.Saturday)
	if err != nil {
		t.Fatalf("SelectDay(Saturday) error = %v", err)
	}
	if date != "2026-10-17" {
		t.Errorf("SelectDay() = %s, want 2026-10-17", date)
	}
	if markup, _ := nav.Markup(ctx); markup != "saturday sheet" {
		t.Errorf("Markup() = %q", markup)
	}

	if _, err := nav.SelectDay(ctx, time.Sunday); !errors.Is(err, ErrDayNotFound) {
		t.Errorf("SelectDay(Sunday) error = %v, want ErrDayNotFound", err)
	}

	if _, err := nav.SelectDay(ctx, time.Monday); err == nil || errors.Is(err, ErrDayNotFound) {
		t.Errorf("SelectDay(Monday) error = %v, want status error", err)
	}
}

func TestHTTP_LoginRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	nav, err := NewHTTP(HTTPConfig{SheetURL: server.URL, LoginURL: server.URL, Username: "x", Password: "y"})
	if err != nil {
		t.Fatalf("NewHTTP() error = %v", err)
	}

	if err := nav.Open(context.Background()); err == nil {
		t.Error("Open() error = nil, want login failure")
	}
}

func TestNewHTTP_RequiresURL(t *testing.T) {
	if _, err := NewHTTP(HTTPConfig{}); err == nil {
		t.Error("NewHTTP() without URL should fail")
	}
}
