package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Resource is one downloadable file of a CKAN package.
type Resource struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	URL    string `json:"url"`
}

// FileName is "<name>.<format>", with path separators removed from the name.
func (r Resource) FileName() string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(strings.TrimSpace(r.Name))
	return name + "." + strings.ToLower(strings.TrimSpace(r.Format))
}

type packageShow struct {
	Success bool `json:"success"`
	Result  struct {
		Resources []Resource `json:"resources"`
	} `json:"result"`
}

// CKAN downloads the resources of one package from a CKAN open-data portal.
type CKAN struct {
	client    *resty.Client
	packageID string
	logger    zerolog.Logger
}

func NewCKAN(baseURL, packageID string, timeout time.Duration, retries int, logger zerolog.Logger) *CKAN {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second)
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() >= 500
	})
	return &CKAN{client: client, packageID: packageID, logger: logger}
}

// Resources calls package_show for the configured package.
// The body is decoded regardless of the response Content-Type.
func (c *CKAN) Resources(ctx context.Context) ([]Resource, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("id", c.packageID).
		Get("/api/3/action/package_show")
	if err != nil {
		return nil, fmt.Errorf("package_show %s: %w", c.packageID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("package_show %s: %s", c.packageID, resp.Status())
	}
	var out packageShow
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("package_show %s: decode: %w", c.packageID, err)
	}
	if !out.Success {
		return nil, fmt.Errorf("package_show %s: portal reported failure", c.packageID)
	}
	return out.Result.Resources, nil
}

// Download stores every resource of the package in dir and returns the written paths.
func (c *CKAN) Download(ctx context.Context, dir string) ([]string, error) {
	resources, err := c.Resources(ctx)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(resources))
	for _, r := range resources {
		resp, err := c.client.R().SetContext(ctx).Get(r.URL)
		if err != nil {
			return nil, fmt.Errorf("download %s: %w", r.Name, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("download %s: %s", r.Name, resp.Status())
		}
		path := filepath.Join(dir, r.FileName())
		if err := os.WriteFile(path, resp.Body(), 0o644); err != nil {
			return nil, err
		}
		c.logger.Info().Str("resource", r.Name).Str("path", path).Int("bytes", len(resp.Body())).Msg("downloaded")
		paths = append(paths, path)
	}
	return paths, nil
}
