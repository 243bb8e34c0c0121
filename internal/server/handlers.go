package server

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/catalog/internal/cache"
	"storefront/catalog/internal/catalog"
	"storefront/catalog/internal/domain"
	"storefront/catalog/internal/resolver"
	"storefront/catalog/internal/service"
)

type productList struct {
	Total int                     `json:"total"`
	Items []domain.ProductSummary `json:"items"`
}

func (s *Server) listProducts(c *gin.Context) {
	q := parseProductQuery(c)
	ctx := c.Request.Context()

	key := cache.Key("products", q.Q, q.Category, q.Brand, q.Sort.String(),
		strconv.Itoa(q.Offset), strconv.Itoa(q.Limit), strconv.FormatBool(q.Discounted))

	body, ok := s.cache.Get(ctx, key)
	if !ok {
		page, err := s.service.Products(ctx, q)
		if err != nil {
			writeUnavailable(c, err)
			return
		}

		list := productList{Total: page.Total, Items: make([]domain.ProductSummary, 0, len(page.Items))}
		for i := range page.Items {
			list.Items = append(list.Items, page.Items[i].Summary())
		}
		if body, err = encodeJSON(list); err != nil {
			writeUnavailable(c, err)
			return
		}
		s.cache.Set(ctx, key, body)
	}

	writeCacheable(c, body, productsCacheControl, true)
}

func parseProductQuery(c *gin.Context) domain.ProductQuery {
	return domain.ProductQuery{
		Q:          c.Query("q"),
		Category:   c.Query("category"),
		Brand:      c.Query("brand"),
		Sort:       domain.SortOrder(c.Query("sort")),
		Offset:     intParam(c.Query("offset")),
		Limit:      limitParam(c.Query("limit")),
		Discounted: c.Query("discounted") == "true",
	}
}

// numberParam reads a numeric query value. Missing or unparsable values are not ok.
func numberParam(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// intParam truncates a numeric query value to the int32 range. Unset is 0.
func intParam(raw string) int {
	f, ok := numberParam(raw)
	if !ok {
		return 0
	}
	switch {
	case f > math.MaxInt32:
		return math.MaxInt32
	case f < math.MinInt32:
		return math.MinInt32
	}
	return int(f)
}

// limitParam is intParam except that a non-zero fraction never collapses to the
// unset value: it is clamped up to a single item.
func limitParam(raw string) int {
	n := intParam(raw)
	if f, ok := numberParam(raw); ok && n == 0 && f != 0 {
		return 1
	}
	return n
}

func (s *Server) getProduct(c *gin.Context) {
	raw := strings.TrimSpace(c.Param("id"))
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		writeError(c, http.StatusBadRequest, "bad_request", "product id must be a number")
		return
	}

	id, ok := productID(f)
	if !ok {
		writeError(c, http.StatusNotFound, "not_found", "product not found")
		return
	}

	p, err := s.service.Product(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			writeError(c, http.StatusNotFound, "not_found", "product not found")
			return
		}
		writeUnavailable(c, err)
		return
	}

	body, err := encodeJSON(p)
	if err != nil {
		writeUnavailable(c, err)
		return
	}
	c.Data(http.StatusOK, jsonContentType, body)
}

// productID converts a parsed id to the id space. Ids are integers below 2^31-1.
func productID(f float64) (uint32, bool) {
	if f < 0 || f >= math.MaxUint32 || f != math.Trunc(f) {
		return 0, false
	}
	return uint32(f), true
}

func (s *Server) listCategories(c *gin.Context) {
	summary, err := s.service.Categories(c.Request.Context())
	if err != nil {
		writeUnavailable(c, err)
		return
	}
	body, err := encodeJSON(summary)
	if err != nil {
		writeUnavailable(c, err)
		return
	}
	writeCacheable(c, body, categoriesCacheControl, false)
}

func (s *Server) serveImage(c *gin.Context) {
	img, err := s.resolver.Resolve(c.Request.Context(), c.Param("path"))
	if err != nil {
		if !errors.Is(err, resolver.ErrImageNotFound) {
			_ = c.Error(err)
		}
		c.String(http.StatusNotFound, "Not found")
		return
	}

	c.Header("Cache-Control", imageCacheControl)
	c.Data(http.StatusOK, img.ContentType, img.Data)
}

func (s *Server) checkout(c *gin.Context) {
	var req domain.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", "request body must be a checkout JSON object")
		return
	}

	order, err := s.service.Checkout(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrder) {
			writeError(c, http.StatusBadRequest, "invalid_order", err.Error())
			return
		}
		writeUnavailable(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"products": s.service.Stats().Kept,
	})
}
