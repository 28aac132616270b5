package files_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/caregate/internal/files"
	"github.com/JaimeStill/caregate/internal/roles"
	"github.com/JaimeStill/caregate/pkg/storage"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := files.Config{}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.MaxSizeBytes() != 5*1024*1024 {
			t.Errorf("MaxSizeBytes = %d, want 5MB", cfg.MaxSizeBytes())
		}
		if cfg.ExpiryDuration() != 30*time.Minute {
			t.Errorf("Expiry = %v, want 30m", cfg.ExpiryDuration())
		}
		if strings.Join(cfg.AllowedExtensions, ",") != ".pdf,.csv,.txt" {
			t.Errorf("AllowedExtensions = %v", cfg.AllowedExtensions)
		}
	})

	t.Run("env overrides normalize extensions", func(t *testing.T) {
		t.Setenv("CG_TEST_FILES_EXT", "PDF, json")
		t.Setenv("CG_TEST_FILES_EXPIRY", "1h")

		cfg := files.Config{}
		err := cfg.Finalize(&files.Env{
			AllowedExtensions: "CG_TEST_FILES_EXT",
			Expiry:            "CG_TEST_FILES_EXPIRY",
		})
		if err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if strings.Join(cfg.AllowedExtensions, ",") != ".pdf,.json" {
			t.Errorf("AllowedExtensions = %v", cfg.AllowedExtensions)
		}
		if cfg.ExpiryDuration() != time.Hour {
			t.Errorf("Expiry = %v", cfg.ExpiryDuration())
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, cfg := range []files.Config{
			{MaxSize: "lots"},
			{Expiry: "soon"},
			{SweepInterval: "-1m"},
		} {
			if err := cfg.Finalize(nil); err == nil {
				t.Errorf("Finalize(%+v) should fail", cfg)
			}
		}
	})

	t.Run("merge", func(t *testing.T) {
		base := files.Config{MaxSize: "5MB", Expiry: "30m"}
		base.Merge(&files.Config{MaxSize: "10MB"})
		if base.MaxSize != "10MB" || base.Expiry != "30m" {
			t.Errorf("merged = %+v", base)
		}
	})
}

func TestExtension(t *testing.T) {
	allowed := []string{".pdf", ".csv", ".txt"}

	tests := []struct {
		filename string
		want     string
		wantErr  bool
	}{
		{"labs.PDF", ".pdf", false},
		{"vitals.csv", ".csv", false},
		{"notes.txt", ".txt", false},
		{"scan.png", "", true},
		{"README", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := files.Extension(tt.filename, allowed)
			if tt.wantErr {
				if !errors.Is(err, files.ErrUnsupportedType) {
					t.Errorf("err = %v, want ErrUnsupportedType", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("got (%q, %v), want %q", got, err, tt.want)
			}
		})
	}
}

func TestDetectType(t *testing.T) {
	if got := files.DetectType("text/csv", []byte("a,b")); got != "text/csv" {
		t.Errorf("declared type = %q", got)
	}
	if got := files.DetectType("application/octet-stream", []byte("%PDF-1.7\n")); got != "application/pdf" {
		t.Errorf("sniffed type = %q", got)
	}
	if got := files.DetectType("", []byte("plain words")); !strings.HasPrefix(got, "text/plain") {
		t.Errorf("sniffed text = %q", got)
	}
}

func TestSummarize(t *testing.T) {
	t.Run("text counts lines", func(t *testing.T) {
		got := files.Summarize(discard(), "text/csv", []byte("a,b\n1,2\n"))
		want := "This is a text/csv file with sample medical data. (2 lines, 8 B)"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("unreadable pdf keeps size", func(t *testing.T) {
		got := files.Summarize(discard(), "application/pdf", []byte("%PDF-1.7 truncated"))
		if !strings.HasPrefix(got, "This is a application/pdf file with sample medical data.") {
			t.Errorf("got %q", got)
		}
		if strings.Contains(got, "pages") || !strings.Contains(got, "18 B") {
			t.Errorf("got %q, want size without page count", got)
		}
	})
}

func TestExpired(t *testing.T) {
	now := time.Now()
	f := files.File{ExpiryTime: now}
	if !f.Expired(now) {
		t.Error("file should be expired at its expiry time")
	}
	if f.Expired(now.Add(-time.Second)) {
		t.Error("file should not be expired before its expiry time")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{files.ErrNotFound, http.StatusNotFound},
		{files.ErrQueryNotFound, http.StatusNotFound},
		{storage.ErrNotFound, http.StatusNotFound},
		{files.ErrExpired, http.StatusGone},
		{files.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{files.ErrUnsupportedType, http.StatusUnsupportedMediaType},
		{files.ErrInvalidFile, http.StatusBadRequest},
		{roles.ErrForbidden, http.StatusForbidden},
		{io.EOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := files.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
