package files

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/JaimeStill/caregate/pkg/formatting"
)

// DetectType returns the MIME type for an upload. A specific client-declared
// type is trusted; otherwise the content is sniffed.
func DetectType(declared string, data []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return http.DetectContentType(data)
}

// Extension returns the lowercase extension of filename if it is allowed.
func Extension(filename string, allowed []string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || !slices.Contains(allowed, ext) {
		return "", fmt.Errorf("%w: %q (allowed: %s)", ErrUnsupportedType, ext, strings.Join(allowed, ", "))
	}
	return ext, nil
}

// Summarize describes an attachment for the response stage.
func Summarize(logger *slog.Logger, fileType string, data []byte) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "This is a %s file with sample medical data.", fileType)

	var details []string
	switch {
	case fileType == "application/pdf":
		if pages, err := api.PageCount(bytes.NewReader(data), nil); err != nil {
			logger.Warn("failed to extract PDF page count", "error", err)
		} else {
			details = append(details, fmt.Sprintf("%d pages", pages))
		}
	case strings.HasPrefix(fileType, "text/"):
		lines := bytes.Count(data, []byte("\n"))
		if len(data) > 0 && !bytes.HasSuffix(data, []byte("\n")) {
			lines++
		}
		details = append(details, fmt.Sprintf("%d lines", lines))
	}
	details = append(details, formatting.FormatBytes(int64(len(data)), 1))

	fmt.Fprintf(&sb, " (%s)", strings.Join(details, ", "))
	return sb.String()
}
