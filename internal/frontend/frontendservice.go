package frontend

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
)

const MainPageName = "index.html"

//go:embed public
var embeddedFS embed.FS

type FrontendService struct {
	assets fs.FS
}

// NewFrontendService serves the gallery from staticDir, or from the embedded
// assets when staticDir is empty.
func NewFrontendService(staticDir string) *FrontendService {
	if staticDir != "" {
		slog.Info("serving frontend from directory", "dir", staticDir)
		return &FrontendService{assets: os.DirFS(staticDir)}
	}
	return &FrontendService{assets: echo.MustSubFS(embeddedFS, "public")}
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	e.StaticFS("/", service.assets)
	e.GET("/", service.indexHandler)
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	data, err := fs.ReadFile(service.assets, MainPageName)
	if err != nil {
		slog.Error("indexHandler: failed to read index page", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load page")
	}
	return ctx.HTMLBlob(http.StatusOK, data)
}
