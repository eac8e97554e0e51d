package backend

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jo-hoe/sheetgallery/internal/backend/imageproxy"
	"github.com/jo-hoe/sheetgallery/internal/backend/sheets"
)

const (
	ProbePath        = "/probe"
	imageLoadFailure = "Error al cargar la imagen"
)

// ListingQueries is what the API needs from the listing query service.
type ListingQueries interface {
	All(ctx context.Context) ([]sheets.Record, error)
	PhotosFor(ctx context.Context, idHome string) ([]sheets.Record, error)
}

// ImageFetcher is what the API needs from the image proxy.
type ImageFetcher interface {
	FetchURL(ctx context.Context, rawURL string) (*imageproxy.Image, error)
	Fetch(ctx context.Context, fileID string) (*imageproxy.Image, error)
}

type APIService struct {
	listings ListingQueries
	images   ImageFetcher
}

type proxyImageRequest struct {
	URL string `query:"url" validate:"omitempty,max=2048"`
}

func NewAPIService(listings ListingQueries, images ImageFetcher) *APIService {
	return &APIService{
		listings: listings,
		images:   images,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	e.GET(ProbePath, func(c echo.Context) error {
		return c.String(http.StatusOK, "API Service is running")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/api/departamentos", s.listingsHandler)
	e.GET("/api/fotos/:id_home", s.photosHandler)
	e.GET("/api/image/:id", s.imageByIDHandler)
	e.GET("/proxy-image", s.proxyImageHandler)
}

func (s *APIService) listingsHandler(ctx echo.Context) error {
	records, err := s.listings.All(ctx.Request().Context())
	if err != nil {
		slog.Error("listingsHandler: failed to load listings",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": "Error al obtener departamentos"})
	}
	return ctx.JSON(http.StatusOK, records)
}

func (s *APIService) photosHandler(ctx echo.Context) error {
	idHome := ctx.Param("id_home")
	records, err := s.listings.PhotosFor(ctx.Request().Context(), idHome)
	if err != nil {
		slog.Error("photosHandler: failed to load photos",
			"status", http.StatusInternalServerError, "id_home", idHome, "error", err)
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": "Error al obtener fotos"})
	}
	return ctx.JSON(http.StatusOK, records)
}

func (s *APIService) imageByIDHandler(ctx echo.Context) error {
	requested := ctx.Param("id")
	fileID := imageproxy.ResolveID(requested)
	if fileID != requested {
		slog.Debug("imageByIDHandler: invalid file id, serving default image", "requested", requested)
	}

	image, err := s.images.Fetch(ctx.Request().Context(), fileID)
	return s.writeImage(ctx, fileID, image, err)
}

func (s *APIService) proxyImageHandler(ctx echo.Context) error {
	var req proxyImageRequest
	if err := ctx.Bind(&req); err != nil {
		slog.Debug("proxyImageHandler: unreadable query, serving default image", "error", err)
		req.URL = ""
	}
	if err := ctx.Validate(&req); err != nil {
		slog.Debug("proxyImageHandler: rejected url, serving default image", "error", err)
		req.URL = ""
	}

	image, err := s.images.FetchURL(ctx.Request().Context(), req.URL)
	return s.writeImage(ctx, req.URL, image, err)
}

func (s *APIService) writeImage(ctx echo.Context, requested string, image *imageproxy.Image, err error) error {
	if err != nil {
		slog.Error("writeImage: failed to load image",
			"status", http.StatusInternalServerError, "requested", requested, "error", err)
		return ctx.String(http.StatusInternalServerError, imageLoadFailure)
	}

	if image.Fallback {
		setNoCache(ctx)
	} else {
		ctx.Response().Header().Set("Cache-Control", "public, max-age=3600")
	}
	return ctx.Blob(http.StatusOK, image.ContentType, image.Data)
}

func setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}
