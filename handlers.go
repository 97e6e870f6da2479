package multiplicity

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	content, err := a.Cache.Home(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(content, a.Config))
}

func (a *App) handleEvent(c echo.Context) error {
	ctx := c.Request().Context()
	event, err := a.Cache.GetEvent(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	settings, err := a.Cache.Settings(ctx)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Event(event, settings, a.Config))
}

func (a *App) handleSitemap(c echo.Context) error {
	events, err := a.Cache.Events(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, events)
}

func (a *App) handleFeed(c echo.Context) error {
	events, err := a.Cache.Events(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, events)
}

func handleEventsRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/#past-events")
}

func (a *App) handleFavicon(c echo.Context) error {
	path := filepath.Join(a.staticDir, "favicon.svg")
	if _, err := os.Stat(path); err == nil {
		return c.File(path)
	}
	return echo.StaticFileHandler("embedded/favicon.svg", EmbeddedAssets)(c)
}

func (a *App) handleRobots(c echo.Context) error {
	path := filepath.Join(a.staticDir, "robots.txt")
	if _, err := os.Stat(path); err == nil {
		return c.File(path)
	}
	body := "User-agent: *\nAllow: /\nDisallow: /admin/\nDisallow: /api/\n\nSitemap: " + BuildURL(a.Config.URL) + "sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
