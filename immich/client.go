package immich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	apperrors "github.com/alexjbarnes/immich-sync/internal/errors"
)

// Per-call timeouts. Nothing in the client blocks indefinitely: the
// probe is short so endpoint selection costs at most one timeout, and
// the upload bound is generous enough for large images.
const (
	pingTimeout     = 2 * time.Second
	metadataTimeout = 10 * time.Second
	uploadTimeout   = 60 * time.Second
)

// errorBodyLimit caps how much of a response body ends up in error
// messages.
const errorBodyLimit = 200

// Client talks to the Immich REST API at a single base URL.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates an API client with the given http.Client.
// If httpClient is nil, http.DefaultClient is used.
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// BaseURL returns the base URL this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping checks the server health endpoint. Anything other than a 200
// within the probe timeout is an error.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/server/ping", nil)
	if err != nil {
		return fmt.Errorf("creating ping request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pinging %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: ping returned status %d", apperrors.ErrAPIResponse, resp.StatusCode)
	}

	return nil
}

// ListAlbums returns all albums owned by the API key's user.
func (c *Client) ListAlbums(ctx context.Context) ([]Album, error) {
	ctx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/albums", nil)
	if err != nil {
		return nil, fmt.Errorf("creating albums request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching albums: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading albums response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: albums returned status %d: %s", apperrors.ErrAPIRequest, resp.StatusCode, trimBody(body))
	}

	var albums []Album
	if err := json.Unmarshal(body, &albums); err != nil {
		return nil, fmt.Errorf("decoding albums response: %w", err)
	}

	return albums, nil
}

// ResolveAlbum returns the id of the album with the exact given name.
// Matching is case-sensitive and the first match wins; the server
// enforces name uniqueness. A missing album is fatal to the run: albums
// are never auto-created.
func (c *Client) ResolveAlbum(ctx context.Context, name string) (string, error) {
	albums, err := c.ListAlbums(ctx)
	if err != nil {
		return "", err
	}

	for _, album := range albums {
		if album.AlbumName == name {
			return album.ID, nil
		}
	}

	return "", fmt.Errorf("%w: %q (create it on the server first)", apperrors.ErrAlbumNotFound, name)
}

// AddToAlbum links an asset into an album. The server operation is a
// set union, so adding an asset that is already in the album succeeds.
func (c *Client) AddToAlbum(ctx context.Context, albumID, assetID string) error {
	ctx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()

	payload, err := json.Marshal(addAssetsRequest{IDs: []string{assetID}})
	if err != nil {
		return fmt.Errorf("marshalling album add request: %w", err)
	}

	url := fmt.Sprintf("%s/api/albums/%s/assets", c.baseURL, albumID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating album add request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("adding asset to album: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: album add returned status %d: %s", apperrors.ErrAPIRequest, resp.StatusCode, trimBody(body))
	}

	return nil
}

// UploadAsset streams one file to POST /api/assets and classifies the
// response. The file handle is closed on every exit path. A returned
// error means the file is not settled and will be retried next run;
// any UploadResult means it is settled remotely.
func (c *Client) UploadAsset(ctx context.Context, deviceID string, f CandidateFile) (UploadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	file, err := os.Open(f.Path)
	if err != nil {
		return UploadResult{}, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer file.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		if err := writeUploadBody(mw, deviceID, f, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/assets", pr)
	if err != nil {
		return UploadResult{}, fmt.Errorf("creating upload request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("uploading %s: %w", f.Name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("reading upload response for %s: %w", f.Name, err)
	}

	switch resp.StatusCode {
	case http.StatusCreated:
		return classifySuccess(OutcomeCreated, body, f.Name)
	case http.StatusOK:
		// Server-side identity match: the asset already exists and the
		// server reports success rather than conflict.
		return classifySuccess(OutcomeDeduplicated, body, f.Name)
	case http.StatusConflict:
		// Hard duplicate. Some server versions include the conflicting
		// asset id in the body, some don't; extract it leniently and
		// leave AssetID empty when absent.
		return UploadResult{
			Outcome: OutcomeRejectedDuplicate,
			AssetID: gjson.GetBytes(body, "id").Str,
		}, nil
	default:
		return UploadResult{}, fmt.Errorf("%w: upload of %s returned status %d: %s",
			apperrors.ErrAPIRequest, f.Name, resp.StatusCode, trimBody(body))
	}
}

func classifySuccess(outcome Outcome, body []byte, name string) (UploadResult, error) {
	var ur uploadResponse
	if err := json.Unmarshal(body, &ur); err != nil || ur.ID == "" {
		return UploadResult{}, fmt.Errorf("%w: upload of %s succeeded but response carried no asset id: %s",
			apperrors.ErrAPIResponse, name, trimBody(body))
	}

	return UploadResult{Outcome: outcome, AssetID: ur.ID}, nil
}

// writeUploadBody writes the multipart form: metadata fields first,
// then the asset byte stream.
func writeUploadBody(mw *multipart.Writer, deviceID string, f CandidateFile, file *os.File) error {
	fields := [][2]string{
		{"deviceAssetId", f.DeviceAssetID()},
		{"deviceId", deviceID},
		{"fileCreatedAt", f.CreatedAt().UTC().Format(time.RFC3339)},
		{"fileModifiedAt", f.MTime.UTC().Format(time.RFC3339)},
		{"isFavorite", "false"},
	}

	for _, field := range fields {
		if err := mw.WriteField(field[0], field[1]); err != nil {
			return fmt.Errorf("writing field %s: %w", field[0], err)
		}
	}

	part, err := mw.CreateFormFile("assetData", f.Name)
	if err != nil {
		return fmt.Errorf("creating file part: %w", err)
	}

	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("streaming %s: %w", f.Name, err)
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")
}

func trimBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > errorBodyLimit {
		return s[:errorBodyLimit] + "..."
	}
	return s
}
