package formatting_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/caregate/pkg/formatting"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n         int64
		precision int
		want      string
	}{
		{0, 1, "0 B"},
		{512, 2, "512 B"},
		{1024, 0, "1 KB"},
		{1536, 1, "1.5 KB"},
		{5 * 1024 * 1024, 0, "5 MB"},
		{3 * 1024 * 1024 * 1024, -1, "3 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"5MB", 5 * 1024 * 1024, false},
		{"512 kb", 512 * 1024, false},
		{"1.5GB", 1536 * 1024 * 1024, false},
		{"2048", 2048, false},
		{" 10B ", 10, false},
		{"", 0, true},
		{"MB", 0, true},
		{"5XB", 0, true},
		{"1.2.3MB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseBytes(%q) = %d, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBytes(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

type verdict struct {
	Level string `json:"level"`
}

func TestParseScalar(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"bare", "0.42", 0.42, false},
		{"padded", "  0.9\n", 0.9, false},
		{"fenced", "```\n0.3\n```", 0.3, false},
		{"words", "The score is 0.4", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.Parse[float64](tt.input)
			if tt.wantErr {
				if !errors.Is(err, formatting.ErrParseFailed) {
					t.Errorf("Parse(%q) error = %v, want ErrParseFailed", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseObject(t *testing.T) {
	got, err := formatting.Parse[verdict]("Here you go:\n```json\n{\"level\": \"urgent\"}\n```")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got.Level != "urgent" {
		t.Errorf("Level = %q, want urgent", got.Level)
	}
}

func TestUnfence(t *testing.T) {
	if got := formatting.Unfence("plain text "); got != "plain text" {
		t.Errorf("Unfence(plain) = %q", got)
	}
	if got := formatting.Unfence("```json\n{\"a\":1}\n```"); got != `{"a":1}` {
		t.Errorf("Unfence(fenced) = %q", got)
	}
}
