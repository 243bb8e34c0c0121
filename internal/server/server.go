package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/catalog/internal/cache"
	"storefront/catalog/internal/resolver"
	"storefront/catalog/internal/service"
)

const (
	productsCacheControl   = "public, max-age=30, s-maxage=60, stale-while-revalidate=300"
	categoriesCacheControl = "public, max-age=300, s-maxage=600, stale-while-revalidate=3600"
	imageCacheControl      = "public, max-age=31536000, immutable"
	jsonContentType        = "application/json; charset=utf-8"
)

// Server exposes the catalog over HTTP.
type Server struct {
	service  *service.Service
	resolver resolver.ImageResolver
	cache    cache.ResponseCache
	router   *gin.Engine
}

// New builds the router. imageRoute is the public image prefix, served next to /_images.
func New(svc *service.Service, res resolver.ImageResolver, responses cache.ResponseCache, imageRoute string) *Server {
	if responses == nil {
		responses = cache.NewNoopCache()
	}
	s := &Server{
		service:  svc,
		resolver: res,
		cache:    responses,
		router:   gin.New(),
	}

	s.router.Use(gin.Recovery(), requestID(), requestLogger())

	api := s.router.Group("/api")
	api.GET("/products", s.listProducts)
	api.GET("/products/:id", s.getProduct)
	api.GET("/categories", s.listCategories)
	api.POST("/checkout", s.checkout)

	s.router.GET("/_images/*path", s.serveImage)
	if route := "/" + strings.Trim(imageRoute, "/"); route != "/" && route != "/_images" && route != "/api" {
		s.router.GET(route+"/*path", s.serveImage)
	}

	s.router.GET("/healthz", s.health)

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
