// ABOUTME: Gateway HTTP router: JSON /api routes plus the HTML dashboard
// ABOUTME: Translates gateway errors into {error} bodies with their status codes
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harperreed/reicrm/handlers"
	"github.com/harperreed/reicrm/logging"
	"github.com/harperreed/reicrm/models"
	"github.com/harperreed/reicrm/viz"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Router struct {
	engine       *gin.Engine
	properties   *handlers.PropertyHandlers
	contacts     *handlers.ContactHandlers
	activities   *handlers.ActivityHandlers
	dashboard    *handlers.DashboardHandlers
	publicBaseID string
}

// NewRouter serves gw. publicBaseID is the base id browser code may see.
func NewRouter(gw *handlers.Gateway, publicBaseID string) *Router {
	return &Router{
		properties:   gw.Properties,
		contacts:     gw.Contacts,
		activities:   gw.Activities,
		dashboard:    gw.Dashboard,
		publicBaseID: publicBaseID,
	}
}

// Setup builds the engine. mode is a gin mode (debug, release, test).
func (r *Router) Setup(mode string) (*gin.Engine, error) {
	gin.SetMode(mode)
	r.engine = gin.New()
	r.engine.Use(gin.Recovery())
	r.engine.Use(RequestLogger())

	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	r.engine.SetHTMLTemplate(tmpl)

	r.setupRoutes()
	return r.engine, nil
}

func (r *Router) setupRoutes() {
	r.engine.GET("/", r.handleDashboardPage)

	api := r.engine.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api.GET("/config", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"publicBaseId": r.publicBaseID})
	})

	api.GET("/properties", r.listProperties)
	api.POST("/properties/create", r.createProperty)
	api.POST("/properties/bulk-create", r.bulkCreateProperties)

	api.GET("/contacts", r.listContacts)

	api.GET("/activities", r.listActivities)
	api.POST("/activities/create", r.createActivity)
	api.POST("/activities/complete", r.completeActivity)

	api.GET("/dashboard", r.dashboardStats)
	api.GET("/graph/pipeline", r.pipelineGraph)
}

func (r *Router) listProperties(c *gin.Context) {
	properties, err := r.properties.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(properties))
}

func (r *Router) listContacts(c *gin.Context) {
	contacts, err := r.contacts.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(contacts))
}

func (r *Router) listActivities(c *gin.Context) {
	activities, err := r.activities.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(activities))
}

func (r *Router) createProperty(c *gin.Context) {
	var in models.PropertyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorBody{Error: err.Error()})
		return
	}

	result, err := r.properties.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (r *Router) bulkCreateProperties(c *gin.Context) {
	var in models.BulkCreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorBody{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, r.properties.BulkCreate(c.Request.Context(), in))
}

func (r *Router) createActivity(c *gin.Context) {
	var in models.ActivityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorBody{Error: err.Error()})
		return
	}

	result, err := r.activities.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (r *Router) completeActivity(c *gin.Context) {
	var in models.CompleteActivityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorBody{Error: err.Error()})
		return
	}

	result, err := r.activities.Complete(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (r *Router) dashboardStats(c *gin.Context) {
	dash, err := r.dashboard.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

func (r *Router) pipelineGraph(c *gin.Context) {
	snap, err := r.dashboard.Snapshot(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	dot, err := viz.GeneratePipelineGraph(c.Request.Context(), snap.Properties, snap.Contacts)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/vnd.graphviz; charset=utf-8", []byte(dot))
}

func (r *Router) handleDashboardPage(c *gin.Context) {
	dash, err := r.dashboard.Dashboard(c.Request.Context())
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("error fetching dashboard data", "err", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"Title":   "Dashboard unavailable",
			"Message": err.Error(),
		})
		return
	}
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Title":     "Real Estate CRM Dashboard",
		"Dashboard": dash,
	})
}

// fail writes err as an {error} body. Gateway errors carry their own status
// and caller-safe message; anything else is reported generically.
func fail(c *gin.Context, err error) {
	if gwErr, ok := handlers.AsError(err); ok {
		c.JSON(gwErr.StatusCode(), models.ErrorBody{Error: gwErr.Message})
		return
	}
	logging.FromContext(c.Request.Context()).Error("request failed", "err", err)
	c.JSON(http.StatusInternalServerError, models.ErrorBody{Error: "Internal server error"})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"thousands": viz.FormatThousands,
		"dollars":   viz.FormatDollars,
		"badge": func(cat viz.Category) string {
			return cat.ColorName()
		},
		"date": func(raw string, now time.Time) string {
			return viz.DisplayDate(raw, now.Location())
		},
	}
}
