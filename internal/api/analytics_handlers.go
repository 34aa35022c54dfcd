package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type monthQuery struct {
	Year  int `form:"year" binding:"required"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

func (s *Server) weeklyAnalytics(c *gin.Context) {
	var q weekQuery
	if !s.bindQuery(c, &q) {
		return
	}
	weekStart, err := s.weekStartOrCurrent(q.WeekStart)
	if err != nil {
		s.respondError(c, err)
		return
	}
	stats, err := s.svc.Analytics.Weekly(c.Request.Context(), currentUser(c), weekStart)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) monthlyAnalytics(c *gin.Context) {
	var q monthQuery
	if !s.bindQuery(c, &q) {
		return
	}
	stats, err := s.svc.Analytics.Monthly(c.Request.Context(), currentUser(c), q.Year, q.Month)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) dashboard(c *gin.Context) {
	stats, err := s.svc.Analytics.Dashboard(c.Request.Context(), currentUser(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
