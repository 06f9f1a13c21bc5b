package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
	"github.com/goliatone/go-cabinet-admin/components/dashboard/commands"
	"github.com/goliatone/go-cabinet-admin/components/dashboard/httpapi"
	"github.com/goliatone/go-cabinet-admin/components/dashboard/queries"
	"github.com/goliatone/go-cabinet-admin/components/reports"
)

// ViewerResolver converts a router.Context into a dashboard.ViewerContext.
type ViewerResolver func(router.Context) dashboard.ViewerContext

// Config wires go-router with the cabinet admin controller, API, and notice hub.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *dashboard.Controller
	API            httpapi.Executor
	Notices        *dashboard.NoticeHub
	ViewerResolver ViewerResolver
	Now            func() time.Time
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for admin endpoints.
type RouteConfig struct {
	HTML          string
	ReportPreview string
	ReportView    string
	API           string
	WebSocket     string
}

// Register mounts admin routes (HTML, JSON, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := cfg.routes()
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	viewerResolver := cfg.ViewerResolver
	if viewerResolver == nil {
		viewerResolver = defaultViewerResolver
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		dates, err := dashboard.ParseDateRange(ctx.Query("date_from"), ctx.Query("date_to"), now())
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		var buf bytes.Buffer
		if err := cfg.Controller.RenderOverview(ctx.Context(), viewerResolver(ctx), dates, &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return sendHTML(ctx, buf.Bytes())
	}))

	group.Post(routes.ReportPreview, router.WrapHandler(func(ctx router.Context) error {
		var cfgIn reports.Config
		if err := json.Unmarshal(ctx.Body(), &cfgIn); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		var buf bytes.Buffer
		if err := cfg.Controller.RenderReportPreview(ctx.Context(), viewerResolver(ctx), cfgIn, &buf); err != nil {
			return respondErr(ctx, err)
		}
		return sendHTML(ctx, buf.Bytes())
	}))

	group.Get(routes.ReportView, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderReportView(ctx.Context(), viewerResolver(ctx), ctx.Param("id"), &buf); err != nil {
			return respondErr(ctx, err)
		}
		return sendHTML(ctx, buf.Bytes())
	}))

	if cfg.API != nil {
		registerAPI(group.Group(routes.API), cfg.API, viewerResolver, now)
	}

	if cfg.Notices != nil {
		registerWebSocket(cfg.Router, cfg.Notices, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver ViewerResolver, now func() time.Time) {
	r.Get("/stats", router.WrapHandler(func(ctx router.Context) error {
		dates, err := dashboard.ParseDateRange(ctx.Query("date_from"), ctx.Query("date_to"), now())
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		result, err := api.Overview(ctx.Context(), dates)
		return respond(ctx, http.StatusOK, result, err)
	}))

	r.Get("/cabinets", router.WrapHandler(func(ctx router.Context) error {
		result, err := api.Cabinets(ctx.Context())
		return respond(ctx, http.StatusOK, result, err)
	}))

	r.Get("/accounts", router.WrapHandler(func(ctx router.Context) error {
		result, err := api.Accounts(ctx.Context(), pageRequest(ctx))
		return respond(ctx, http.StatusOK, result, err)
	}))

	r.Post("/accounts", router.WrapHandler(func(ctx router.Context) error {
		var payload dashboard.NewAccount
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.AddAccount(ctx.Context(), payload); err != nil {
			return respondErr(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "created"})
	}))

	r.Get("/balances", router.WrapHandler(func(ctx router.Context) error {
		result, err := api.Balances(ctx.Context(), pageRequest(ctx))
		return respond(ctx, http.StatusOK, result, err)
	}))

	r.Get("/statistics", router.WrapHandler(func(ctx router.Context) error {
		dates, err := dashboard.ParseDateRange(ctx.Query("date_from"), ctx.Query("date_to"), now())
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		theme, _ := api.Theme(ctx.Context(), resolver(ctx))
		result, err := api.Statistics(ctx.Context(), dashboard.StatisticsRequest{
			Range: dates,
			Page:  pageRequest(ctx),
			Theme: theme.Mode,
		})
		return respond(ctx, http.StatusOK, result, err)
	}))

	r.Get("/listings/:cabinet", router.WrapHandler(func(ctx router.Context) error {
		dates, err := dashboard.ParseDateRange(ctx.Query("date_from"), ctx.Query("date_to"), now())
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		result, err := api.Listings(ctx.Context(), dashboard.ListingsRequest{
			CabinetID: ctx.Param("cabinet"),
			Range:     dates,
			Page:      pageRequest(ctx),
		})
		return respond(ctx, http.StatusOK, result, err)
	}))

	r.Get("/listings/:cabinet/file", router.WrapHandler(func(ctx router.Context) error {
		result, err := api.CabinetFile(ctx.Context(), queries.CabinetFileInput{
			CabinetID: ctx.Param("cabinet"),
			Page:      pageRequest(ctx),
		})
		return respond(ctx, http.StatusOK, result, err)
	}))

	r.Get("/listings/:cabinet/images", router.WrapHandler(func(ctx router.Context) error {
		result, err := api.CabinetImages(ctx.Context(), ctx.Param("cabinet"))
		return respond(ctx, http.StatusOK, result, err)
	}))

	r.Post("/listings", router.WrapHandler(func(ctx router.Context) error {
		var form dashboard.ListingForm
		if err := json.Unmarshal(ctx.Body(), &form); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		created, err := api.CreateListings(ctx.Context(), form)
		if err != nil {
			return respondErr(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, map[string]int{"created": created})
	}))

	r.Put("/listings/:cabinet", router.WrapHandler(func(ctx router.Context) error {
		var payload commands.UpdateListingInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.CabinetID = ctx.Param("cabinet")
		if err := api.UpdateListing(ctx.Context(), payload); err != nil {
			return respondErr(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	}))

	r.Delete("/listings/:cabinet/:external", router.WrapHandler(func(ctx router.Context) error {
		input := commands.DeleteListingInput{CabinetID: ctx.Param("cabinet"), ExternalID: ctx.Param("external")}
		if err := api.DeleteListing(ctx.Context(), input); err != nil {
			return respondErr(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "deleted"})
	}))

	r.Post("/listings/:cabinet/cities", router.WrapHandler(func(ctx router.Context) error {
		var payload struct {
			OldCities    string `json:"old_cities"`
			NewAddresses string `json:"new_addresses"`
		}
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		form := dashboard.ParseCityReplace(ctx.Param("cabinet"), payload.OldCities, payload.NewAddresses)
		if err := api.ReplaceCities(ctx.Context(), form); err != nil {
			return respondErr(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "replaced"})
	}))

	r.Post("/listings/:cabinet/images", router.WrapHandler(func(ctx router.Context) error {
		files, err := uploadedImages(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		urls, err := api.UploadImages(ctx.Context(), ctx.Param("cabinet"), files)
		return respond(ctx, http.StatusOK, map[string][]string{"urls": urls}, err)
	}))

	r.Get("/comparison", router.WrapHandler(func(ctx router.Context) error {
		result, err := api.Comparison(ctx.Context(), resolver(ctx))
		return respond(ctx, http.StatusOK, result, err)
	}))

	r.Post("/comparison", router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ComparisonInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.Viewer = resolver(ctx)
		if err := api.UpdateComparison(ctx.Context(), payload); err != nil {
			return respondErr(ctx, err)
		}
		result, err := api.Comparison(ctx.Context(), payload.Viewer)
		return respond(ctx, http.StatusOK, result, err)
	}))

	r.Get("/theme", router.WrapHandler(func(ctx router.Context) error {
		result, err := api.Theme(ctx.Context(), resolver(ctx))
		return respond(ctx, http.StatusOK, result, err)
	}))

	r.Post("/theme", router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SetThemeInput
		if body := ctx.Body(); len(body) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
		}
		payload.Viewer = resolver(ctx)
		if err := api.SetTheme(ctx.Context(), payload); err != nil {
			return respondErr(ctx, err)
		}
		result, err := api.Theme(ctx.Context(), payload.Viewer)
		return respond(ctx, http.StatusOK, result, err)
	}))

	r.Post("/theme/toggle", router.WrapHandler(func(ctx router.Context) error {
		viewer := resolver(ctx)
		if err := api.SetTheme(ctx.Context(), commands.SetThemeInput{Viewer: viewer, Toggle: true}); err != nil {
			return respondErr(ctx, err)
		}
		result, err := api.Theme(ctx.Context(), viewer)
		return respond(ctx, http.StatusOK, result, err)
	}))

	r.Get("/reports", router.WrapHandler(func(ctx router.Context) error {
		result, err := api.Reports(ctx.Context())
		return respond(ctx, http.StatusOK, result, err)
	}))

	r.Post("/reports", router.WrapHandler(func(ctx router.Context) error {
		var cfg reports.Config
		if err := json.Unmarshal(ctx.Body(), &cfg); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		result, err := api.SaveReport(ctx.Context(), cfg)
		return respond(ctx, http.StatusCreated, result, err)
	}))

	r.Post("/reports/preview", router.WrapHandler(func(ctx router.Context) error {
		var cfg reports.Config
		if err := json.Unmarshal(ctx.Body(), &cfg); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		result, err := api.ReportPreview(ctx.Context(), cfg)
		return respond(ctx, http.StatusOK, result, err)
	}))

	r.Post("/reports/schedule", router.WrapHandler(func(ctx router.Context) error {
		var cfg reports.Config
		if err := json.Unmarshal(ctx.Body(), &cfg); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		result, err := api.ReportSchedule(ctx.Context(), cfg)
		return respond(ctx, http.StatusOK, result, err)
	}))

	r.Get("/reports/:id", router.WrapHandler(func(ctx router.Context) error {
		result, err := api.ReportView(ctx.Context(), ctx.Param("id"))
		return respond(ctx, http.StatusOK, result, err)
	}))
}

func registerWebSocket[T any](r router.Router[T], hub *dashboard.NoticeHub, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		notices, cancel := hub.Subscribe()
		defer cancel()
		gone := dashboard.DrainReads(ws)
		for {
			select {
			case <-gone:
				return nil
			case notice, ok := <-notices:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(notice); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

// respond writes v as JSON with status, or the mapped error.
func respond(ctx router.Context, status int, v any, err error) error {
	if err != nil {
		return respondErr(ctx, err)
	}
	return ctx.JSON(status, v)
}

var errNoImages = errors.New("gorouter: no images in request")

// uploadedImages reads a multipart "files" part, or a JSON body of
// base64 encoded images when the client sends several at once.
func uploadedImages(ctx router.Context) ([]dashboard.ImageFile, error) {
	if httpapi.IsMultipart(ctx.Header("Content-Type")) {
		header, err := ctx.FormFile(httpapi.ImageFormField)
		if err != nil {
			return nil, err
		}
		file, err := httpapi.ReadImageFile(header)
		if err != nil {
			return nil, err
		}
		return []dashboard.ImageFile{file}, nil
	}
	var payload struct {
		Files []dashboard.ImageFile `json:"files"`
	}
	if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
		return nil, err
	}
	if len(payload.Files) == 0 {
		return nil, errNoImages
	}
	return payload.Files, nil
}

func pageRequest(ctx router.Context) dashboard.PageRequest {
	page, _ := strconv.Atoi(ctx.Query("page"))
	limit, _ := strconv.Atoi(ctx.Query("limit"))
	return dashboard.NormalizePage(dashboard.PageRequest{Page: page, Limit: limit})
}

func defaultViewerResolver(ctx router.Context) dashboard.ViewerContext {
	var viewer dashboard.ViewerContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		viewer.UserID = v
	}
	viewer.Locale = inferLocale(ctx)
	return viewer
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	if header := ctx.Header("Accept-Language"); header != "" {
		if lang := parseAcceptLanguage(header); lang != "" {
			return lang
		}
	}
	return ""
}

func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func sendHTML(ctx router.Context, body []byte) error {
	ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
	return ctx.Send(body)
}

func respondErr(ctx router.Context, err error) error {
	return ctx.JSON(httpapi.StatusFor(err), httpapi.NewErrorBody(err))
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, httpapi.ErrorBody{Error: err.Error()})
}

func (cfg Config[T]) routes() RouteConfig {
	return defaultRouteConfig(cfg.Routes)
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/"
	}
	if routes.ReportPreview == "" {
		routes.ReportPreview = "/reports/preview"
	}
	if routes.ReportView == "" {
		routes.ReportView = "/reports/:id"
	}
	if routes.API == "" {
		routes.API = "/api"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws/notices"
	}
	return routes
}
