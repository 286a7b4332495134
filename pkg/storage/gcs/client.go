package gcs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/siteadmin-backend/pkg/config"
	"github.com/angelmondragon/siteadmin-backend/pkg/logger"
	"github.com/angelmondragon/siteadmin-backend/pkg/storage"
)

const (
	tokenEndpoint  = "https://oauth2.googleapis.com/token"
	scope          = "https://www.googleapis.com/auth/devstorage.read_write"
	pingTimeout    = 5 * time.Second
	metadataToken  = "http://metadata.google.internal/computeMetadata/v1/instance/service-accounts/default/token"
	defaultAPIBase = "https://storage.googleapis.com"
)

var _ storage.ObjectStore = (*Client)(nil)

// Client talks to the GCS JSON API for a single bucket.
type Client struct {
	httpClient  *http.Client
	bucket      string
	apiBase     string
	publicBase  string
	tokenSource *tokenSource
	logg        *logger.Logger
}

func closeBody(ctx context.Context, logg *logger.Logger, body io.Closer) {
	if body == nil {
		return
	}
	if err := body.Close(); err != nil && logg != nil {
		logg.WarnErr(ctx, "gcs: closing response body failed", err)
	}
}

func NewClient(ctx context.Context, cfg config.StorageConfig, gcp config.GCPConfig, logg *logger.Logger) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("gcs bucket name is required")
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	var ts *tokenSource
	var err error
	switch {
	case gcp.CredentialsJSON != "":
		ts, err = newServiceAccountTokenSource(httpClient, gcp.CredentialsJSON)
	case gcp.ApplicationCredentials != "":
		raw, readErr := os.ReadFile(gcp.ApplicationCredentials)
		if readErr != nil {
			return nil, fmt.Errorf("reading credentials file: %w", readErr)
		}
		ts, err = newServiceAccountTokenSource(httpClient, string(raw))
	default:
		ts = newMetadataTokenSource(httpClient)
	}
	if err != nil {
		return nil, err
	}

	client := newClient(httpClient, cfg, ts, logg)
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("gcs health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", cfg.Bucket), "gcs client initialized")
	}
	return client, nil
}

func newClient(httpClient *http.Client, cfg config.StorageConfig, ts *tokenSource, logg *logger.Logger) *Client {
	apiBase := strings.TrimRight(cfg.APIBaseURL, "/")
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	publicBase := strings.TrimRight(cfg.PublicBaseURL, "/")
	if publicBase == "" {
		publicBase = defaultAPIBase
	}
	return &Client{
		httpClient:  httpClient,
		bucket:      cfg.Bucket,
		apiBase:     apiBase,
		publicBase:  publicBase,
		tokenSource: ts,
		logg:        logg,
	}
}

func (c *Client) Bucket() string {
	if c == nil {
		return ""
	}
	return c.bucket
}

func (c *Client) PublicURL(path string) string {
	return storage.PublicURL(c.publicBase, c.bucket, path)
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.tokenSource == nil {
		return errors.New("gcs client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/storage/v1/b/%s/o?maxResults=1", c.apiBase, url.PathEscape(c.bucket))
	resp, err := c.do(ctx, http.MethodGet, u, nil, "")
	if err != nil {
		return err
	}
	defer closeBody(ctx, c.logg, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return statusError("gcs object check failed", resp)
	}
	return nil
}

// Upload sends body as a multipart upload so content type and cache control
// land in object metadata. Without Overwrite the write is conditional on the
// object not existing yet.
func (c *Client) Upload(ctx context.Context, path string, body io.Reader, opts storage.UploadOptions) error {
	if path == "" {
		return errors.New("gcs: object path is required")
	}

	meta := map[string]string{"name": path}
	if opts.ContentType != "" {
		meta["contentType"] = opts.ContentType
	}
	if opts.CacheControl != "" {
		meta["cacheControl"] = opts.CacheControl
	}
	payload, contentType, err := buildMultipart(meta, body, opts.ContentType)
	if err != nil {
		return fmt.Errorf("gcs: building upload body: %w", err)
	}

	q := url.Values{}
	q.Set("uploadType", "multipart")
	if !opts.Overwrite {
		q.Set("ifGenerationMatch", "0")
	}
	u := fmt.Sprintf("%s/upload/storage/v1/b/%s/o?%s", c.apiBase, url.PathEscape(c.bucket), q.Encode())

	resp, err := c.do(ctx, http.MethodPost, u, payload, contentType)
	if err != nil {
		return fmt.Errorf("gcs: upload %s: %w", path, err)
	}
	defer closeBody(ctx, c.logg, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return nil
	case http.StatusPreconditionFailed:
		return fmt.Errorf("%w: %s", storage.ErrObjectExists, path)
	default:
		return statusError("gcs: upload "+path, resp)
	}
}

// Remove deletes each path, treating 404 as already gone. All paths are
// attempted; failures are combined.
func (c *Client) Remove(ctx context.Context, paths ...string) error {
	var errs error
	for _, path := range paths {
		if path == "" {
			continue
		}
		errs = multierr.Append(errs, c.removeOne(ctx, path))
	}
	return errs
}

func (c *Client) removeOne(ctx context.Context, path string) error {
	u := fmt.Sprintf("%s/storage/v1/b/%s/o/%s", c.apiBase, url.PathEscape(c.bucket), url.PathEscape(path))
	resp, err := c.do(ctx, http.MethodDelete, u, nil, "")
	if err != nil {
		return fmt.Errorf("gcs: delete %s: %w", path, err)
	}
	defer closeBody(ctx, c.logg, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return statusError("gcs: delete "+path, resp)
	}
}

type listResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Name        string    `json:"name"`
		Size        string    `json:"size"`
		ContentType string    `json:"contentType"`
		Updated     time.Time `json:"updated"`
	} `json:"items"`
}

// List walks every page of objects under prefix.
func (c *Client) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	pageToken := ""
	for {
		q := url.Values{}
		if prefix != "" {
			q.Set("prefix", prefix)
		}
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}
		q.Set("fields", "nextPageToken,items(name,size,contentType,updated)")
		u := fmt.Sprintf("%s/storage/v1/b/%s/o?%s", c.apiBase, url.PathEscape(c.bucket), q.Encode())

		page, err := c.listPage(ctx, u)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			size, _ := strconv.ParseInt(item.Size, 10, 64)
			out = append(out, storage.ObjectInfo{
				Path:        item.Name,
				Size:        size,
				ContentType: item.ContentType,
				Updated:     item.Updated,
			})
		}
		if page.NextPageToken == "" {
			return out, nil
		}
		pageToken = page.NextPageToken
	}
}

func (c *Client) listPage(ctx context.Context, u string) (*listResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, u, nil, "")
	if err != nil {
		return nil, fmt.Errorf("gcs: list: %w", err)
	}
	defer closeBody(ctx, c.logg, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("gcs: list", resp)
	}
	var page listResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("gcs: decoding list: %w", err)
	}
	return &page, nil
}

func (c *Client) do(ctx context.Context, method, u string, body io.Reader, contentType string) (*http.Response, error) {
	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.httpClient.Do(req)
}

func buildMultipart(meta map[string]string, body io.Reader, mediaType string) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	part, err := w.CreatePart(metaHeader)
	if err != nil {
		return nil, "", err
	}
	if err := json.NewEncoder(part).Encode(meta); err != nil {
		return nil, "", err
	}

	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	mediaHeader := textproto.MIMEHeader{}
	mediaHeader.Set("Content-Type", mediaType)
	part, err = w.CreatePart(mediaHeader)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, body); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, "multipart/related; boundary=" + w.Boundary(), nil
}

func statusError(prefix string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if msg := strings.TrimSpace(string(b)); msg != "" {
		return fmt.Errorf("%s: %s: %s", prefix, resp.Status, msg)
	}
	return fmt.Errorf("%s: %s", prefix, resp.Status)
}
