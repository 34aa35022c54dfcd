package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"study-tracker/internal/model"
	"study-tracker/internal/service"
)

type createPlanRequest struct {
	Date            string           `json:"date" binding:"required"`
	Area            string           `json:"area" binding:"required,area"`
	Title           string           `json:"title" binding:"required"`
	Notes           *string          `json:"notes"`
	CategoryID      uint             `json:"categoryId" binding:"required"`
	DurationMinutes *int             `json:"durationMinutes" binding:"omitempty,min=0"`
	Intensity       *model.Intensity `json:"intensity" binding:"omitempty,intensity"`
}

type updatePlanRequest struct {
	Date            *string                         `json:"date"`
	Title           *string                         `json:"title"`
	Notes           model.Nullable[string]          `json:"notes"`
	CategoryID      *uint                           `json:"categoryId"`
	DurationMinutes *int                            `json:"durationMinutes" binding:"omitempty,min=0"`
	Intensity       model.Nullable[model.Intensity] `json:"intensity"`
	Status          *model.PlanStatus               `json:"status"`
}

type completePlanRequest struct {
	DurationMinutes *int    `json:"durationMinutes" binding:"omitempty,min=0"`
	Notes           *string `json:"notes"`
}

type planListQuery struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Area      string `form:"area" binding:"omitempty,area"`
}

func (s *Server) listPlans(c *gin.Context) {
	var q planListQuery
	if !s.bindQuery(c, &q) {
		return
	}
	items, err := s.svc.Plans.List(c.Request.Context(), currentUser(c), q.StartDate, q.EndDate, optionalArea(q.Area))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) weekPlans(c *gin.Context) {
	var q weekQuery
	if !s.bindQuery(c, &q) {
		return
	}
	weekStart, err := s.weekStartOrCurrent(q.WeekStart)
	if err != nil {
		s.respondError(c, err)
		return
	}
	items, err := s.svc.Plans.ListWeek(c.Request.Context(), currentUser(c), weekStart, optionalArea(q.Area))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) createPlan(c *gin.Context) {
	var req createPlanRequest
	if !s.bindJSON(c, &req) {
		return
	}
	item, err := s.svc.Plans.Create(c.Request.Context(), currentUser(c), service.PlanInput{
		Date:            req.Date,
		Area:            model.Area(req.Area),
		Title:           req.Title,
		Notes:           req.Notes,
		CategoryID:      req.CategoryID,
		DurationMinutes: req.DurationMinutes,
		Intensity:       req.Intensity,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (s *Server) updatePlan(c *gin.Context) {
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	var req updatePlanRequest
	if !s.bindJSON(c, &req) {
		return
	}
	item, err := s.svc.Plans.Update(c.Request.Context(), currentUser(c), id, service.PlanUpdate{
		Date:            req.Date,
		Title:           req.Title,
		Notes:           req.Notes,
		CategoryID:      req.CategoryID,
		DurationMinutes: req.DurationMinutes,
		Intensity:       req.Intensity,
		Status:          req.Status,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// completePlan accepts an optional body overriding the logged duration and notes.
func (s *Server) completePlan(c *gin.Context) {
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	var req completePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.respondError(c, bindError(err))
		return
	}
	entry, err := s.svc.Plans.Complete(c.Request.Context(), currentUser(c), id, service.PlanCompletion{
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan item completed", "logEntry": entry})
}

func (s *Server) skipPlan(c *gin.Context) {
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	item, err := s.svc.Plans.Skip(c.Request.Context(), currentUser(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan item skipped", "item": item})
}

func (s *Server) deletePlan(c *gin.Context) {
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	if err := s.svc.Plans.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan item deleted"})
}
