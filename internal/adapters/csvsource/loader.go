package csvsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/ports"
)

const maxFileBytes = 64 << 20

// Loader reads delimited files from the local filesystem or over HTTP.
// Relative paths are resolved against BaseDir.
type Loader struct {
	logger  *slog.Logger
	client  *http.Client
	baseDir string
}

func NewLoader(logger *slog.Logger, baseDir string, timeout time.Duration) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Loader{
		logger:  logger,
		client:  &http.Client{Timeout: timeout},
		baseDir: baseDir,
	}
}

// FetchTable parses the first location that can be read. Locations that
// fail are logged and skipped.
func (l *Loader) FetchTable(ctx context.Context, locations []string) (ports.Table, error) {
	if len(locations) == 0 {
		return ports.Table{}, fmt.Errorf("%w: no locations configured", domain.ErrSourceUnavailable)
	}
	var failures []string
	for _, location := range locations {
		content, err := l.read(ctx, location)
		if err != nil {
			if ctx.Err() != nil {
				return ports.Table{}, ctx.Err()
			}
			l.logger.WarnContext(ctx, "csv location unavailable",
				"module", "csvsource.loader",
				"layer", "adapter",
				"operation", "fetch_table",
				"outcome", "retry",
				"location", location,
				"error", err,
			)
			failures = append(failures, location+": "+err.Error())
			continue
		}
		table, err := Parse(location, content)
		if err != nil {
			return ports.Table{}, err
		}
		l.logger.InfoContext(ctx, "csv loaded",
			"module", "csvsource.loader",
			"layer", "adapter",
			"operation", "fetch_table",
			"outcome", "success",
			"location", location,
			"rows", table.TotalRows,
			"warnings", len(table.Warnings),
		)
		return table, nil
	}
	return ports.Table{}, fmt.Errorf("%w (%s)", domain.ErrSourceUnavailable, strings.Join(failures, "; "))
}

func (l *Loader) read(ctx context.Context, location string) ([]byte, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return l.fetchHTTP(ctx, location)
	}
	path := location
	if !filepath.IsAbs(path) && l.baseDir != "" {
		path = filepath.Join(l.baseDir, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}
	if info.Size() > maxFileBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", path, maxFileBytes)
	}
	return os.ReadFile(path)
}

func (l *Loader) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	content, err := io.ReadAll(io.LimitReader(resp.Body, maxFileBytes+1))
	if err != nil {
		return nil, err
	}
	if len(content) > maxFileBytes {
		return nil, errors.New("response exceeds size limit")
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return nil, errors.New("empty response")
	}
	return content, nil
}
