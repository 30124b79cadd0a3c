package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/chooseyourcart/storefront/internal/models"
)

type PageParams struct {
	Page    int
	PerPage int
}

func (p PageParams) query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
	return q
}

type SearchParams struct {
	Query      string
	CategoryID int
	PageParams
}

func withQuery(path string, q url.Values) string {
	if enc := q.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.getJSON(ctx, "/categories", "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Products(ctx context.Context, p PageParams) (*Paginated[models.Product], error) {
	var out Paginated[models.Product]
	if err := c.getJSON(ctx, withQuery("/products", p.query()), "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FeaturedProducts(ctx context.Context, p PageParams) (*Paginated[models.Product], error) {
	var out Paginated[models.Product]
	if err := c.getJSON(ctx, withQuery("/products/featured", p.query()), "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpcomingProducts(ctx context.Context, p PageParams) (*Paginated[models.Product], error) {
	var out Paginated[models.Product]
	if err := c.getJSON(ctx, withQuery("/products/upcoming", p.query()), "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchProducts(ctx context.Context, p SearchParams) (*Paginated[models.Product], error) {
	q := p.query()
	if p.Query != "" {
		q.Set("q", p.Query)
	}
	if p.CategoryID > 0 {
		q.Set("category_id", strconv.Itoa(p.CategoryID))
	}

	var out Paginated[models.Product]
	if err := c.getJSON(ctx, withQuery("/products/search", q), "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ProductDetail(ctx context.Context, slug string) (*models.ProductDetail, error) {
	var out models.ProductDetail
	if err := c.getJSON(ctx, "/products/"+url.PathEscape(slug), "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type CategoryProducts struct {
	Products Paginated[models.Product] `json:"data"`
	Category models.Category           `json:"category"`
}

// CategoryProducts is the one endpoint whose envelope carries an extra
// top-level "category" field next to the paginated data, so the whole
// body is decoded instead of just the data field.
func (c *Client) CategoryProducts(ctx context.Context, slug string, p PageParams) (*CategoryProducts, error) {
	path := withQuery("/categories/"+url.PathEscape(slug)+"/products", p.query())

	raw, err := c.doRaw(ctx, "GET", path, "", nil, "")
	if err != nil {
		return nil, err
	}

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		CategoryProducts
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("invalid response format: %w", err)
	}
	if !body.Success {
		if body.Message != "" {
			return nil, fmt.Errorf("%s", body.Message)
		}
		return nil, fmt.Errorf("request was not successful")
	}
	return &body.CategoryProducts, nil
}

func (c *Client) Sliders(ctx context.Context) ([]models.Slider, error) {
	var out []models.Slider
	if err := c.getJSON(ctx, "/sliders", "", &out); err != nil {
		return nil, err
	}
	return out, nil
}
