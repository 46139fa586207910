package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pfrederiksen/vanier-courses/internal/apperr"
	"github.com/pfrederiksen/vanier-courses/internal/calendar"
	"github.com/pfrederiksen/vanier-courses/internal/filter"
	"github.com/pfrederiksen/vanier-courses/internal/planner"
	"github.com/pfrederiksen/vanier-courses/internal/schedule"
)

// MaxPlanCourses bounds how many course codes one plan request may name.
const MaxPlanCourses = 8

// Service is the part of the catalog the handlers use.
type Service interface {
	ListDepartments(ctx context.Context) ([]int, error)
	ListCourses(ctx context.Context, department int) ([]schedule.Course, error)
	FindCourse(ctx context.Context, code string) ([]schedule.Course, error)
}

// Handler serves the catalog routes.
type Handler struct {
	svc      Service
	calendar calendar.Options
}

// NewHandler builds a Handler. cal places exported calendar events.
func NewHandler(svc Service, cal calendar.Options) *Handler {
	return &Handler{svc: svc, calendar: cal}
}

// ListDepartments handles GET /api/departments.
func (h *Handler) ListDepartments(c *gin.Context) {
	departments, err := h.svc.ListDepartments(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, departments)
}

// ListCourses handles GET /api/departments/:dept.
func (h *Handler) ListCourses(c *gin.Context) {
	id := c.Param("dept")
	department, err := strconv.Atoi(id)
	if err != nil || department < 0 {
		Fail(c, apperr.Validation("api.ListCourses", "Invalid department", err))
		return
	}

	f, err := filterFromQuery(c)
	if err != nil {
		Fail(c, err)
		return
	}

	courses, err := h.svc.ListCourses(c.Request.Context(), department)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, f.Apply(courses))
}

// FindCourse handles GET /api/courses/:code.
func (h *Handler) FindCourse(c *gin.Context) {
	courses, ok := h.findCourse(c)
	if !ok {
		return
	}
	OK(c, courses)
}

// CourseCalendar handles GET /api/courses/:code/calendar.
func (h *Handler) CourseCalendar(c *gin.Context) {
	courses, ok := h.findCourse(c)
	if !ok {
		return
	}

	body, err := calendar.Export(courses, h.calendar)
	if err != nil {
		Fail(c, err)
		return
	}

	filename := strings.ToLower(c.Param("code")) + ".ics"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

func (h *Handler) findCourse(c *gin.Context) ([]schedule.Course, bool) {
	f, err := filterFromQuery(c)
	if err != nil {
		Fail(c, err)
		return nil, false
	}

	courses, err := h.svc.FindCourse(c.Request.Context(), c.Param("code"))
	if err != nil {
		Fail(c, err)
		return nil, false
	}
	return f.Apply(courses), true
}

// Plan handles GET /api/plan?code=...&code=...&limit=N. Query filters apply
// to the candidate sections before combining.
func (h *Handler) Plan(c *gin.Context) {
	const op = "api.Plan"

	codes := c.QueryArray("code")
	if len(codes) == 0 || len(codes) > MaxPlanCourses {
		Fail(c, apperr.Validation(op, "Provide between 1 and "+strconv.Itoa(MaxPlanCourses)+" course codes", nil))
		return
	}

	limit := planner.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			Fail(c, apperr.Validation(op, "Invalid limit", err))
			return
		}
		limit = n
	}

	f, err := filterFromQuery(c)
	if err != nil {
		Fail(c, err)
		return
	}

	groups := make([][]schedule.Course, 0, len(codes))
	for _, code := range codes {
		sections, err := h.svc.FindCourse(c.Request.Context(), code)
		if err != nil {
			Fail(c, err)
			return
		}
		groups = append(groups, f.Apply(sections))
	}

	OK(c, planner.Combinations(groups, limit))
}

// Health handles GET /health.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// filterFromQuery reads the day, between, teacher, title, course, open and
// changed query parameters.
func filterFromQuery(c *gin.Context) (*filter.Filter, error) {
	const op = "api.filterFromQuery"
	f := filter.NewFilter()

	if raw := c.Query("day"); raw != "" {
		days, err := filter.ParseDays(raw)
		if err != nil {
			return nil, apperr.Validation(op, err.Error(), err)
		}
		f.Days = days
	}

	if raw := c.Query("between"); raw != "" {
		w, err := filter.ParseWindow(raw)
		if err != nil {
			return nil, apperr.Validation(op, err.Error(), err)
		}
		f.Window = w
	}

	f.Teachers = filter.SplitList(c.Query("teacher"))
	f.Titles = filter.SplitList(c.Query("title"))
	f.Courses = filter.SplitList(c.Query("course"))

	var err error
	if f.OpenOnly, err = queryBool(c, "open"); err != nil {
		return nil, apperr.Validation(op, "open must be true or false", err)
	}
	if f.ChangedOnly, err = queryBool(c, "changed"); err != nil {
		return nil, apperr.Validation(op, "changed must be true or false", err)
	}

	return f, nil
}

func queryBool(c *gin.Context, key string) (bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
