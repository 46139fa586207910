package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pfrederiksen/vanier-courses/internal/metrics"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	AllowedOrigins []string
	Metrics        *metrics.Metrics
}

// NewRouter wires middleware and routes around h.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(AccessLog())
	r.Use(Metrics(opts.Metrics))
	r.Use(CORS(opts.AllowedOrigins))

	r.GET("/health", Health)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		api.GET("/departments", h.ListDepartments)
		api.GET("/departments/:dept", h.ListCourses)
		api.GET("/courses/:code", h.FindCourse)
		api.GET("/courses/:code/calendar", h.CourseCalendar)
		api.GET("/plan", h.Plan)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrResponse{Code: http.StatusNotFound, Message: "Not found"})
	})

	return r
}
