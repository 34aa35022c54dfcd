package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"study-tracker/internal/model"
)

type presetRequest struct {
	Area    string `json:"area" binding:"required,area"`
	Subject string `json:"subject" binding:"required"`
}

type areaQuery struct {
	Area string `form:"area" binding:"omitempty,area"`
}

func (s *Server) listPresets(c *gin.Context) {
	var q areaQuery
	if !s.bindQuery(c, &q) {
		return
	}
	presets, err := s.svc.Presets.List(c.Request.Context(), currentUser(c), optionalArea(q.Area))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"presets": presets})
}

func (s *Server) createPreset(c *gin.Context) {
	var req presetRequest
	if !s.bindJSON(c, &req) {
		return
	}
	preset, err := s.svc.Presets.Create(c.Request.Context(), currentUser(c), model.Area(req.Area), req.Subject)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"preset": preset})
}

func (s *Server) deletePreset(c *gin.Context) {
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	if err := s.svc.Presets.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Preset deleted"})
}

func (s *Server) deletePresetBySubject(c *gin.Context) {
	area, ok := s.areaParam(c)
	if !ok {
		return
	}
	err := s.svc.Presets.DeleteBySubject(c.Request.Context(), currentUser(c), area, c.Param("subject"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Preset deleted"})
}
