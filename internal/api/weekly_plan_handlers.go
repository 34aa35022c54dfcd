package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"study-tracker/internal/model"
	"study-tracker/internal/service"
)

type createWeeklyPlanRequest struct {
	Area            string           `json:"area" binding:"required,area"`
	DayOfWeek       *int             `json:"dayOfWeek" binding:"required,min=0,max=6"`
	CategoryID      uint             `json:"categoryId" binding:"required"`
	Title           string           `json:"title" binding:"required"`
	Notes           *string          `json:"notes"`
	DurationMinutes *int             `json:"durationMinutes" binding:"omitempty,min=0"`
	Intensity       *model.Intensity `json:"intensity" binding:"omitempty,intensity"`
}

type updateWeeklyPlanRequest struct {
	DayOfWeek       *int                            `json:"dayOfWeek" binding:"omitempty,min=0,max=6"`
	CategoryID      *uint                           `json:"categoryId"`
	Title           *string                         `json:"title"`
	Notes           model.Nullable[string]          `json:"notes"`
	DurationMinutes *int                            `json:"durationMinutes" binding:"omitempty,min=0"`
	Intensity       model.Nullable[model.Intensity] `json:"intensity"`
}

type weekQuery struct {
	WeekStart string `form:"weekStart"`
	Area      string `form:"area" binding:"omitempty,area"`
}

func (s *Server) listWeeklyPlans(c *gin.Context) {
	var q areaQuery
	if !s.bindQuery(c, &q) {
		return
	}
	items, err := s.svc.Weekly.List(c.Request.Context(), currentUser(c), optionalArea(q.Area))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) createWeeklyPlan(c *gin.Context) {
	var req createWeeklyPlanRequest
	if !s.bindJSON(c, &req) {
		return
	}
	item, err := s.svc.Weekly.Create(c.Request.Context(), currentUser(c), service.WeeklyPlanInput{
		Area:            model.Area(req.Area),
		DayOfWeek:       *req.DayOfWeek,
		CategoryID:      req.CategoryID,
		Title:           req.Title,
		Notes:           req.Notes,
		DurationMinutes: req.DurationMinutes,
		Intensity:       req.Intensity,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (s *Server) updateWeeklyPlan(c *gin.Context) {
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	var req updateWeeklyPlanRequest
	if !s.bindJSON(c, &req) {
		return
	}
	item, err := s.svc.Weekly.Update(c.Request.Context(), currentUser(c), id, service.WeeklyPlanUpdate{
		DayOfWeek:       req.DayOfWeek,
		CategoryID:      req.CategoryID,
		Title:           req.Title,
		Notes:           req.Notes,
		DurationMinutes: req.DurationMinutes,
		Intensity:       req.Intensity,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (s *Server) deleteWeeklyPlan(c *gin.Context) {
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	if err := s.svc.Weekly.SoftDelete(c.Request.Context(), currentUser(c), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Weekly plan item deleted"})
}

// weekStatus requires an explicit Monday so clients never race the week
// boundary.
func (s *Server) weekStatus(c *gin.Context) {
	var q weekQuery
	if !s.bindQuery(c, &q) {
		return
	}
	weekStart, err := service.ParseWeekStart(q.WeekStart, s.loc)
	if err != nil {
		s.respondError(c, err)
		return
	}
	items, err := s.svc.Weekly.WeekStatus(c.Request.Context(), currentUser(c), weekStart, optionalArea(q.Area))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) footballScore(c *gin.Context) {
	var q weekQuery
	if !s.bindQuery(c, &q) {
		return
	}
	weekStart, err := s.weekStartOrCurrent(q.WeekStart)
	if err != nil {
		s.respondError(c, err)
		return
	}
	report, err := s.svc.Weekly.FootballScore(c.Request.Context(), currentUser(c), weekStart)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"weekStart": weekStart.Format(model.DateLayout), "score": report})
}

func (s *Server) completeWeeklyPlan(c *gin.Context) {
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	entry, err := s.svc.Weekly.Complete(c.Request.Context(), currentUser(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Completed", "logEntry": entry})
}

func (s *Server) uncompleteWeeklyPlan(c *gin.Context) {
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	if err := s.svc.Weekly.Uncomplete(c.Request.Context(), currentUser(c), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Uncompleted"})
}
