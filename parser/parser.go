package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sat8bit/guesswho/message"
	"github.com/viant/afs"
	afsurl "github.com/viant/afs/url"
)

// Parser turns the full content of one export file into messages, in file order.
type Parser interface {
	Parse(source string, data []byte) ([]message.Message, error)
}

// ParseFile reads the whole file at location and hands it to p.
// location may be a plain path or any URL the afs service understands.
func ParseFile(ctx context.Context, fs afs.Service, location string, p Parser) ([]message.Message, error) {
	URL, err := ToURL(location)
	if err != nil {
		return nil, err
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	return p.Parse(location, data)
}

// ToURL converts a plain, possibly relative, path to a file URL.
// Values that already carry a scheme are returned unchanged.
func ToURL(location string) (string, error) {
	if strings.Contains(location, "://") {
		return location, nil
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", location, err)
	}
	return afsurl.ToFileURL(abs), nil
}
