// Package images supplies product image references. The store treats the
// returned URI as an opaque string.
package images

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Provider resolves a user's image choice to a URI, or nil for no image.
type Provider interface {
	Pick(source string) (*string, error)
}

// NoneProvider never yields an image.
type NoneProvider struct{}

// Pick always returns nil.
func (NoneProvider) Pick(string) (*string, error) { return nil, nil }

// FileProvider copies picked image files into Dir so the product keeps its
// image after the source file is moved or deleted.
type FileProvider struct {
	Dir string
}

// Pick copies the file at source into Dir under a UUID v7 name, keeping the
// extension, and returns its file:// URI. Sources that already carry a URI
// scheme are returned unchanged. An empty source returns nil.
func (p FileProvider) Pick(source string) (*string, error) {
	if source == "" {
		return nil, nil
	}
	if hasScheme(source) {
		return &source, nil
	}

	in, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("image %s is a directory", source)
	}

	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image directory: %w", err)
	}
	dst := filepath.Join(p.Dir, newName()+strings.ToLower(filepath.Ext(source)))
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create image copy: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return nil, fmt.Errorf("copy image: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return nil, fmt.Errorf("close image copy: %w", err)
	}

	abs, err := filepath.Abs(dst)
	if err != nil {
		return nil, err
	}
	uri := (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	return &uri, nil
}

// newName generates a UUID v7 file name.
func newName() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

func hasScheme(s string) bool {
	u, err := url.Parse(s)
	// Single-letter schemes are Windows drive letters.
	return err == nil && len(u.Scheme) > 1
}
