package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"study-tracker/internal/model"
	"study-tracker/internal/service"
)

type createLogRequest struct {
	Area            string           `json:"area" binding:"required,area"`
	DateTime        string           `json:"dateTime" binding:"required"`
	CategoryID      uint             `json:"categoryId" binding:"required"`
	Title           string           `json:"title" binding:"required"`
	Notes           *string          `json:"notes"`
	DurationMinutes int              `json:"durationMinutes" binding:"min=0"`
	Intensity       *model.Intensity `json:"intensity" binding:"omitempty,intensity"`
}

type updateLogRequest struct {
	DateTime        *string                         `json:"dateTime"`
	CategoryID      *uint                           `json:"categoryId"`
	Title           *string                         `json:"title"`
	Notes           model.Nullable[string]          `json:"notes"`
	DurationMinutes *int                            `json:"durationMinutes" binding:"omitempty,min=0"`
	Intensity       model.Nullable[model.Intensity] `json:"intensity"`
}

type logListQuery struct {
	StartDate  string `form:"startDate"`
	EndDate    string `form:"endDate"`
	Area       string `form:"area" binding:"omitempty,area"`
	CategoryID *uint  `form:"categoryId"`
	Limit      int    `form:"limit" binding:"min=0"`
	Offset     int    `form:"offset" binding:"min=0"`
}

func (s *Server) listLogs(c *gin.Context) {
	var q logListQuery
	if !s.bindQuery(c, &q) {
		return
	}
	entries, total, err := s.svc.Logs.List(c.Request.Context(), currentUser(c), service.LogQuery{
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		Area:       optionalArea(q.Area),
		CategoryID: q.CategoryID,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": total})
}

func (s *Server) todayLogs(c *gin.Context) {
	var q areaQuery
	if !s.bindQuery(c, &q) {
		return
	}
	entries, err := s.svc.Logs.Today(c.Request.Context(), currentUser(c), optionalArea(q.Area))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (s *Server) createLog(c *gin.Context) {
	var req createLogRequest
	if !s.bindJSON(c, &req) {
		return
	}
	at, err := s.parseDateTime(req.DateTime)
	if err != nil {
		s.respondError(c, err)
		return
	}
	entry, err := s.svc.Logs.Create(c.Request.Context(), currentUser(c), service.LogInput{
		Area:            model.Area(req.Area),
		DateTime:        at,
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
	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

func (s *Server) updateLog(c *gin.Context) {
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	var req updateLogRequest
	if !s.bindJSON(c, &req) {
		return
	}
	update := service.LogUpdate{
		CategoryID:      req.CategoryID,
		Title:           req.Title,
		Notes:           req.Notes,
		DurationMinutes: req.DurationMinutes,
		Intensity:       req.Intensity,
	}
	if req.DateTime != nil {
		at, err := s.parseDateTime(*req.DateTime)
		if err != nil {
			s.respondError(c, err)
			return
		}
		update.DateTime = &at
	}
	entry, err := s.svc.Logs.Update(c.Request.Context(), currentUser(c), id, update)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

func (s *Server) deleteLog(c *gin.Context) {
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	if err := s.svc.Logs.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Log entry deleted"})
}
