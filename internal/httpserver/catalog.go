package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/chooseyourcart/storefront/internal/api"
	"github.com/chooseyourcart/storefront/internal/logging"
)

// CatalogHTTP proxies browse endpoints straight through to the remote
// API; the storefront owns no catalog data.
type CatalogHTTP struct {
	Client *api.Client
}

func pageParams(c echo.Context) api.PageParams {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	return api.PageParams{Page: page, PerPage: perPage}
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.categories")

	categories, err := h.Client.Categories(ctx)
	if err != nil {
		l.Error("get_categories_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.products")

	page, err := h.Client.Products(ctx, pageParams(c))
	if err != nil {
		l.Error("get_products_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CatalogHTTP) GetFeaturedProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.featured")

	page, err := h.Client.FeaturedProducts(ctx, pageParams(c))
	if err != nil {
		l.Error("get_featured_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CatalogHTTP) GetUpcomingProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.upcoming")

	page, err := h.Client.UpcomingProducts(ctx, pageParams(c))
	if err != nil {
		l.Error("get_upcoming_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	categoryID, _ := strconv.Atoi(c.QueryParam("category_id"))
	page, err := h.Client.SearchProducts(ctx, api.SearchParams{
		Query:      c.QueryParam("q"),
		CategoryID: categoryID,
		PageParams: pageParams(c),
	})
	if err != nil {
		l.Error("search_products_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CatalogHTTP) GetProductDetail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.product_detail")

	detail, err := h.Client.ProductDetail(ctx, c.Param("slug"))
	if err != nil {
		l.Warn("get_product_detail_error", "status", 502, "slug", c.Param("slug"), "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *CatalogHTTP) GetCategoryProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.category_products")

	out, err := h.Client.CategoryProducts(ctx, c.Param("slug"), pageParams(c))
	if err != nil {
		l.Warn("get_category_products_error", "status", 502, "slug", c.Param("slug"), "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHTTP) GetSliders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.sliders")

	sliders, err := h.Client.Sliders(ctx)
	if err != nil {
		l.Error("get_sliders_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, sliders)
}
