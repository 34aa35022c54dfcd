package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"study-tracker/internal/model"
	"study-tracker/internal/service"
)

type createCategoryRequest struct {
	Name  string  `json:"name" binding:"required"`
	Color string  `json:"color" binding:"omitempty,hexcolor"`
	Type  *string `json:"type"`
}

type updateCategoryRequest struct {
	Name     *string                `json:"name"`
	Color    *string                `json:"color" binding:"omitempty,hexcolor"`
	Type     model.Nullable[string] `json:"type"`
	IsActive *bool                  `json:"isActive"`
}

type categoryListQuery struct {
	Active bool `form:"active"`
}

func (s *Server) listCategories(c *gin.Context) {
	area, ok := s.areaParam(c)
	if !ok {
		return
	}
	var q categoryListQuery
	if !s.bindQuery(c, &q) {
		return
	}
	categories, err := s.svc.Categories.List(c.Request.Context(), currentUser(c), area, q.Active)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (s *Server) createCategory(c *gin.Context) {
	area, ok := s.areaParam(c)
	if !ok {
		return
	}
	var req createCategoryRequest
	if !s.bindJSON(c, &req) {
		return
	}
	category, err := s.svc.Categories.Create(c.Request.Context(), currentUser(c), area, service.CategoryInput{
		Name:  req.Name,
		Color: req.Color,
		Type:  req.Type,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

func (s *Server) updateCategory(c *gin.Context) {
	area, ok := s.areaParam(c)
	if !ok {
		return
	}
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	var req updateCategoryRequest
	if !s.bindJSON(c, &req) {
		return
	}
	category, err := s.svc.Categories.Update(c.Request.Context(), currentUser(c), area, id, service.CategoryUpdate{
		Name:     req.Name,
		Color:    req.Color,
		Type:     req.Type,
		IsActive: req.IsActive,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// deleteCategory removes an unused category and deactivates a referenced one.
func (s *Server) deleteCategory(c *gin.Context) {
	area, ok := s.areaParam(c)
	if !ok {
		return
	}
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	deactivated, err := s.svc.Categories.Delete(c.Request.Context(), currentUser(c), area, id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if deactivated {
		c.JSON(http.StatusOK, gin.H{"message": "Category is in use and was deactivated", "deactivated": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
