package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/clayshop/storefront/internal/core/domain"
)

// Client talks to the content store's REST API. Every request carries the
// bearer token; collection responses arrive in a data envelope with a
// pagination meta block.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

type envelope[T any] struct {
	Data T `json:"data"`
	Meta struct {
		Pagination pagination `json:"pagination"`
	} `json:"meta"`
}

// ListProducts fetches the full catalog with media and category populated.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := url.Values{}
	query.Set("populate", "*")

	var env envelope[[]domain.Product]
	if err := c.get(ctx, "/api/products", query, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// ProductBySlug returns the product matching the slug, or nil when absent.
func (c *Client) ProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := url.Values{}
	query.Set("filters[slug][$eq]", slug)
	query.Set("populate", "*")

	var env envelope[[]domain.Product]
	if err := c.get(ctx, "/api/products", query, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return nil, nil
	}
	return &env.Data[0], nil
}

// CategoryBySlug returns the category matching the slug, or nil when absent.
func (c *Client) CategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query := url.Values{}
	query.Set("filters[slug][$eq]", slug)

	var env envelope[[]domain.Category]
	if err := c.get(ctx, "/api/categories", query, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return nil, nil
	}
	return &env.Data[0], nil
}

// FeatureByTitle returns the feature matching the title, or nil when absent.
func (c *Client) FeatureByTitle(ctx context.Context, title string) (*domain.Feature, error) {
	query := url.Values{}
	query.Set("filters[title][$eq]", title)

	var env envelope[[]domain.Feature]
	if err := c.get(ctx, "/api/features", query, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return nil, nil
	}
	return &env.Data[0], nil
}

// CreateCategory creates a category and returns the stored record.
func (c *Client) CreateCategory(ctx context.Context, name, slug string) (*domain.Category, error) {
	body := map[string]any{"data": map[string]any{"name": name, "slug": slug}}

	var env envelope[domain.Category]
	if err := c.send(ctx, http.MethodPost, "/api/categories", body, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// ProductInput carries the writable product fields. Category links the
// record to an existing category by numeric ID.
type ProductInput struct {
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Category    int     `json:"category,omitempty"`
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	var env envelope[domain.Product]
	if err := c.send(ctx, http.MethodPost, "/api/products", map[string]any{"data": in}, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// UpdateProduct writes fields onto an existing product by documentId.
func (c *Client) UpdateProduct(ctx context.Context, documentID string, fields map[string]any) error {
	path := "/api/products/" + url.PathEscape(documentID)
	return c.send(ctx, http.MethodPut, path, map[string]any{"data": fields}, nil)
}

// UpdateHero writes the hero single type; the store creates it on first PUT.
func (c *Client) UpdateHero(ctx context.Context, fields map[string]any) error {
	return c.send(ctx, http.MethodPut, "/api/hero", map[string]any{"data": fields}, nil)
}

func (c *Client) CreateFeature(ctx context.Context, title, description, icon string) error {
	body := map[string]any{"data": map[string]any{
		"title":       title,
		"description": description,
		"icon":        icon,
	}}
	return c.send(ctx, http.MethodPost, "/api/features", body, nil)
}

// UploadMedia uploads a file to the media library. The upload endpoint
// answers with a bare array of file records, not the data envelope.
func (c *Client) UploadMedia(ctx context.Context, filename string, data []byte) (*domain.Image, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("files", filename)
	if err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var files []domain.Image
	if err := c.do(req, &files); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("upload %s: empty response", filename)
	}
	return &files[0], nil
}

// MediaURL resolves a media path to an absolute URL. Already-absolute URLs
// pass through untouched; store-relative paths get the base URL prefix.
func (c *Client) MediaURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") || strings.HasPrefix(path, "//") {
		return path
	}
	return c.baseURL + path
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	return c.do(req, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, detail)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
