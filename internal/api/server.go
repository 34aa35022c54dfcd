// Package api exposes the tracker over a JSON HTTP interface.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"study-tracker/internal/model"
	"study-tracker/internal/service"
)

// Services bundles everything the handlers call into.
type Services struct {
	Auth       *service.AuthService
	Categories *service.CategoryService
	Weekly     *service.WeeklyPlanService
	Logs       *service.LogService
	Plans      *service.PlanService
	Presets    *service.PresetService
	Analytics  *service.AnalyticsService
}

// Server holds handler dependencies.
type Server struct {
	svc Services
	loc *time.Location
	log *zap.Logger
}

// NewRouter builds the gin engine with middleware and every route mounted
// under /api.
func NewRouter(svc Services, loc *time.Location, log *zap.Logger) *gin.Engine {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	registerValidators()

	s := &Server{svc: svc, loc: loc, log: log}

	router := gin.New()
	router.Use(RequestID(), AccessLog(log), Recovery(log))
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody{Error: "route not found"})
	})

	api := router.Group("/api")
	api.GET("/health", s.health)

	auth := api.Group("/auth")
	auth.POST("/register", s.register)
	auth.POST("/login", s.login)

	protected := api.Group("")
	protected.Use(RequireAuth(svc.Auth))

	protected.GET("/auth/me", s.me)
	protected.POST("/auth/logout", s.logout)
	protected.PUT("/auth/me/telegram", s.linkTelegram)

	protected.GET("/categories/:area", s.listCategories)
	protected.POST("/categories/:area", s.createCategory)
	protected.PUT("/categories/:area/:id", s.updateCategory)
	protected.DELETE("/categories/:area/:id", s.deleteCategory)

	protected.GET("/weekly-plans", s.listWeeklyPlans)
	protected.POST("/weekly-plans", s.createWeeklyPlan)
	protected.GET("/weekly-plans/week-status", s.weekStatus)
	protected.GET("/weekly-plans/football-score", s.footballScore)
	protected.PUT("/weekly-plans/:id", s.updateWeeklyPlan)
	protected.DELETE("/weekly-plans/:id", s.deleteWeeklyPlan)
	protected.POST("/weekly-plans/:id/complete", s.completeWeeklyPlan)
	protected.POST("/weekly-plans/:id/uncomplete", s.uncompleteWeeklyPlan)

	protected.GET("/logs", s.listLogs)
	protected.POST("/logs", s.createLog)
	protected.GET("/logs/today", s.todayLogs)
	protected.PUT("/logs/:id", s.updateLog)
	protected.DELETE("/logs/:id", s.deleteLog)

	protected.GET("/plans", s.listPlans)
	protected.POST("/plans", s.createPlan)
	protected.GET("/plans/week", s.weekPlans)
	protected.PUT("/plans/:id", s.updatePlan)
	protected.DELETE("/plans/:id", s.deletePlan)
	protected.POST("/plans/:id/complete", s.completePlan)
	protected.POST("/plans/:id/skip", s.skipPlan)

	protected.GET("/presets", s.listPresets)
	protected.POST("/presets", s.createPreset)
	protected.DELETE("/presets/:id", s.deletePreset)
	protected.DELETE("/presets/by-subject/:area/:subject", s.deletePresetBySubject)

	protected.GET("/analytics/weekly", s.weeklyAnalytics)
	protected.GET("/analytics/monthly", s.monthlyAnalytics)
	protected.GET("/analytics/dashboard", s.dashboard)

	return router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bindJSON decodes and validates the body, writing a 400 on failure.
func (s *Server) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		s.respondError(c, bindError(err))
		return false
	}
	return true
}

func (s *Server) bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		s.respondError(c, bindError(err))
		return false
	}
	return true
}

// idParam reads a positive numeric path parameter.
func (s *Server) idParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		s.respondError(c, validationError(name+" must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}

// areaParam reads the :area path segment.
func (s *Server) areaParam(c *gin.Context) (model.Area, bool) {
	area := model.Area(c.Param("area"))
	if !area.Valid() {
		s.respondError(c, validationError("area must be study or football"))
		return "", false
	}
	return area, true
}

// optionalArea converts an already validated query value.
func optionalArea(raw string) *model.Area {
	if raw == "" {
		return nil
	}
	area := model.Area(raw)
	return &area
}

// weekStartOrCurrent parses ?weekStart=, falling back to this week.
func (s *Server) weekStartOrCurrent(raw string) (time.Time, error) {
	if raw == "" {
		return s.svc.Weekly.CurrentWeekStart(), nil
	}
	return service.ParseWeekStart(raw, s.loc)
}

// parseDateTime accepts RFC 3339 or a zone-less local timestamp.
func (s *Server) parseDateTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, raw, s.loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, validationError("dateTime must be an ISO 8601 timestamp")
}
