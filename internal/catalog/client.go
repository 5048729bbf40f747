package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/time/rate"
	"resty.dev/v3"

	"catalogsync/internal"
	"catalogsync/internal/config"
)

const (
	categoriesPath = "/wp-json/wc/v3/products/categories"
	productsPath   = "/wp-json/wc/v3/products"
	mediaPath      = "/wp-json/wp/v2/media"

	totalPagesHeader = "X-WP-TotalPages"
)

// Client talks to the WooCommerce and WordPress REST APIs. Category and media
// endpoints use the WordPress user; product endpoints use the WooCommerce
// consumer key. No request is retried.
type Client struct {
	cfg     config.Config
	http    *resty.Client
	limiter *rate.Limiter
}

type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("woo api error: %s %s status=%d body=%s", e.Method, e.Path, e.Status, e.Body)
}

type credentials int

const (
	wordpressCredentials credentials = iota
	wooCredentials
)

func NewClient(cfg config.Config) (*Client, error) {
	if err := cfg.Require("WORDPRESS_URL", cfg.WordpressURL); err != nil {
		return nil, err
	}

	limit := rate.Inf
	if cfg.WooRateLimitRPS > 0 {
		limit = rate.Limit(cfg.WooRateLimitRPS)
	}

	hc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.WordpressURL, "/")).
		SetTimeout(cfg.WooTimeout()).
		SetHeader("Accept", "application/json")

	return &Client{cfg: cfg, http: hc, limiter: rate.NewLimiter(limit, 1)}, nil
}

func (c *Client) Close() error {
	return c.http.Close()
}

func (c *Client) ListCategories(ctx context.Context, page, perPage int) (internal.CategoryPage, error) {
	resp, err := c.do(ctx, http.MethodGet, categoriesPath, wordpressCredentials, func(r *resty.Request) {
		r.SetQueryParam("page", strconv.Itoa(page))
		r.SetQueryParam("per_page", strconv.Itoa(perPage))
	})
	if err != nil {
		return internal.CategoryPage{}, err
	}

	var categories []internal.Category
	if err := json.Unmarshal([]byte(resp.String()), &categories); err != nil {
		return internal.CategoryPage{}, fmt.Errorf("decode categories page %d: %w", page, err)
	}

	totalPages := 0
	if raw := resp.Header().Get(totalPagesHeader); raw != "" {
		totalPages, err = strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return internal.CategoryPage{}, fmt.Errorf("bad %s header %q", totalPagesHeader, raw)
		}
	}

	return internal.CategoryPage{Categories: categories, TotalPages: totalPages}, nil
}

// CreateCategory creates a category; parent 0 makes it top-level.
func (c *Client) CreateCategory(ctx context.Context, name string, parent int64) (internal.Category, error) {
	body := map[string]any{"name": name}
	if parent != 0 {
		body["parent"] = parent
	}
	resp, err := c.do(ctx, http.MethodPost, categoriesPath, wordpressCredentials, func(r *resty.Request) {
		r.SetBody(body)
	})
	if err != nil {
		return internal.Category{}, err
	}

	var created internal.Category
	if err := json.Unmarshal([]byte(resp.String()), &created); err != nil {
		return internal.Category{}, fmt.Errorf("decode created category %q: %w", name, err)
	}
	return created, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, categoriesPath+"/"+strconv.FormatInt(id, 10), wordpressCredentials, func(r *resty.Request) {
		r.SetQueryParam("force", "true")
	})
	return err
}

func (c *Client) GetProduct(ctx context.Context, id int64) (internal.Product, error) {
	resp, err := c.do(ctx, http.MethodGet, productPath(id), wooCredentials, nil)
	if err != nil {
		return nil, err
	}
	return decodeProduct(resp.String())
}

func (c *Client) CreateProduct(ctx context.Context, payload map[string]any) (internal.Product, error) {
	resp, err := c.do(ctx, http.MethodPost, productsPath, wooCredentials, func(r *resty.Request) {
		r.SetBody(payload)
	})
	if err != nil {
		return nil, err
	}
	return decodeProduct(resp.String())
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, payload map[string]any) (internal.Product, error) {
	resp, err := c.do(ctx, http.MethodPut, productPath(id), wooCredentials, func(r *resty.Request) {
		r.SetBody(payload)
	})
	if err != nil {
		return nil, err
	}
	return decodeProduct(resp.String())
}

func (c *Client) ListProductsBySKU(ctx context.Context, sku string) ([]internal.Product, error) {
	resp, err := c.do(ctx, http.MethodGet, productsPath, wooCredentials, func(r *resty.Request) {
		r.SetQueryParam("sku", sku)
	})
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(strings.NewReader(resp.String()))
	dec.UseNumber()
	var products []internal.Product
	if err := dec.Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products for sku %q: %w", sku, err)
	}
	return products, nil
}

func (c *Client) UploadMedia(ctx context.Context, filename, contentType string, body []byte) (internal.Media, error) {
	resp, err := c.do(ctx, http.MethodPost, mediaPath, wordpressCredentials, func(r *resty.Request) {
		r.SetHeader("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		r.SetHeader("Content-Type", contentType)
		r.SetBody(body)
	})
	if err != nil {
		return internal.Media{}, err
	}

	var media internal.Media
	if err := json.Unmarshal([]byte(resp.String()), &media); err != nil {
		return internal.Media{}, fmt.Errorf("decode media for %s: %w", filename, err)
	}
	if media.SourceURL == "" {
		return internal.Media{}, fmt.Errorf("media upload for %s returned no source_url", filename)
	}
	return media, nil
}

func (c *Client) do(ctx context.Context, method, path string, creds credentials, prepare func(*resty.Request)) (*resty.Response, error) {
	user, pass, err := c.credentials(creds)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req := c.http.R().SetContext(ctx).SetBasicAuth(user, pass)
	if prepare != nil {
		prepare(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("woo %s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return nil, &APIError{Method: method, Path: path, Status: resp.StatusCode(), Body: resp.String()}
	}
	return resp, nil
}

func (c *Client) credentials(kind credentials) (string, string, error) {
	switch kind {
	case wooCredentials:
		if err := c.cfg.RequireAll("WORDPRESS_KEY", c.cfg.WooConsumerKey, "WORDPRESS_SEC", c.cfg.WooConsumerSecret); err != nil {
			return "", "", err
		}
		return c.cfg.WooConsumerKey, c.cfg.WooConsumerSecret, nil
	default:
		if err := c.cfg.RequireAll("WORDPRESS_USER", c.cfg.WordpressUser, "WORDPRESS_PASS", c.cfg.WordpressPass); err != nil {
			return "", "", err
		}
		return c.cfg.WordpressUser, c.cfg.WordpressPass, nil
	}
}

func productPath(id int64) string {
	return productsPath + "/" + strconv.FormatInt(id, 10)
}

func decodeProduct(body string) (internal.Product, error) {
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var product internal.Product
	if err := dec.Decode(&product); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	return product, nil
}
