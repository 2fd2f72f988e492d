package web

import (
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kuralhub/internal/browse"
	"kuralhub/internal/catalog"
	"kuralhub/internal/prefs"
)

// ColorSchemeHint is the client hint carrying the OS light/dark preference.
const ColorSchemeHint = "Sec-CH-Prefers-Color-Scheme"

type Handler struct {
	State    *browse.State
	Prefs    *prefs.Repo
	Renderer *Renderer
	Logger   *zap.Logger
	// WSPath is advertised to the page for live sessions; empty disables them.
	WSPath string
}

func NewHandler(state *browse.State, prefRepo *prefs.Repo, renderer *Renderer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{State: state, Prefs: prefRepo, Renderer: renderer, Logger: logger}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(h.Renderer.Template())

	static, err := fs.Sub(assetsFS, "static")
	if err == nil {
		r.StaticFS("/static", http.FS(static))
	}

	r.GET("/", h.index)
	r.POST("/prefs/theme", h.setTheme)

	api := r.Group("/api")
	api.GET("/kurals", h.listKurals) // GET /api/kurals?q=&division=&section=&chapter=
	api.GET("/options", h.options)   // GET /api/options?level=&division=&section=
	api.GET("/stats", h.stats)
}

func (h *Handler) filterFromQuery(c *gin.Context, hier catalog.Hierarchy) catalog.Filter {
	return browse.FromParams(hier, c.Query("q"), c.Query("division"), c.Query("section"), c.Query("chapter"))
}

func (h *Handler) index(c *gin.Context) {
	snap := h.State.Snapshot()
	f := h.filterFromQuery(c, snap.Hierarchy)

	vm := pageVM{
		Theme:  h.theme(c),
		Status: snap.Status,
		Stats:  snap.Stats,
		Filter: f,
		Query:  strings.TrimSpace(c.Query("q")),
		WSPath: h.WSPath,
	}

	code := http.StatusOK
	switch snap.Status {
	case browse.StatusReady:
		res, err := h.State.Apply(f)
		if err != nil {
			h.Logger.Error("apply filters", zap.Error(err))
			code = http.StatusServiceUnavailable
			break
		}
		vm.Options = res.Options
		vm.Results = buildResults(res)
	case browse.StatusFailed:
		code = http.StatusServiceUnavailable
	}

	c.Header("Accept-CH", ColorSchemeHint)
	c.HTML(code, "index.html", vm)
}

func (h *Handler) listKurals(c *gin.Context) {
	snap := h.State.Snapshot()
	res, err := h.State.Apply(h.filterFromQuery(c, snap.Hierarchy))
	if err != nil {
		h.notReady(c, snap)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) options(c *gin.Context) {
	snap := h.State.Snapshot()
	if snap.Status != browse.StatusReady {
		h.notReady(c, snap)
		return
	}

	division := strings.TrimSpace(c.Query("division"))
	section := strings.TrimSpace(c.Query("section"))

	if raw := c.Query("level"); raw != "" {
		level, err := catalog.ParseLevel(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "level must be one of: division, section, chapter"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"level":   level,
			"options": snap.Hierarchy.OptionsFor(level, division, section),
		})
		return
	}

	c.JSON(http.StatusOK, snap.Hierarchy.Options(catalog.Filter{Division: division, Section: section}))
}

func (h *Handler) stats(c *gin.Context) {
	snap := h.State.Snapshot()
	body := gin.H{
		"status": snap.Status,
		"source": snap.Source,
	}
	if snap.Status == browse.StatusReady {
		body["total_kurals"] = snap.Stats.TotalKurals
		body["total_chapters"] = snap.Stats.TotalChapters
		body["loaded_at"] = snap.LoadedAt
	}
	c.JSON(http.StatusOK, body)
}

type themeReq struct {
	Theme string `json:"theme" form:"theme"`
}

func (h *Handler) setTheme(c *gin.Context) {
	if h.Prefs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "preferences unavailable"})
		return
	}
	visitorID := prefs.VisitorID(c)
	if visitorID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "visitor unknown"})
		return
	}

	var req themeReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	if err := h.Prefs.SetTheme(c.Request.Context(), visitorID, req.Theme); err != nil {
		if errors.Is(err, prefs.ErrInvalidTheme) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.Logger.Error("save theme", zap.String("visitor", visitorID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": prefs.NormalizeTheme(req.Theme)})
}

// theme resolves the saved preference, falling back to the client hint.
func (h *Handler) theme(c *gin.Context) string {
	saved := ""
	if id := prefs.VisitorID(c); id != "" && h.Prefs != nil {
		p, err := h.Prefs.Get(c.Request.Context(), id)
		if err != nil {
			h.Logger.Warn("load theme", zap.String("visitor", id), zap.Error(err))
		} else if p != nil {
			saved = p.Theme
		}
	}
	return prefs.ResolveTheme(saved, c.GetHeader(ColorSchemeHint))
}

func (h *Handler) notReady(c *gin.Context, snap browse.Snapshot) {
	body := gin.H{"error": browse.ErrNotReady.Error(), "status": snap.Status}
	c.JSON(http.StatusServiceUnavailable, body)
}
