package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/contacts-page/internal/model"
	"gitlab.com/dirk.krummacker/contacts-page/internal/store"
	apimodel "gitlab.com/dirk.krummacker/contacts-page/pkg/model"
)

// findCategories responds with all contact categories, sorted by id.
//
//	> curl http://localhost:8080/api/categories
func (s *Service) findCategories(c *gin.Context) {
	categories, err := s.gateway.FindCategories(c.Request.Context())
	if err != nil {
		s.internalError(c, err)
		return
	}
	dtos := make([]apimodel.Category, 0, len(categories))
	for _, category := range categories {
		dtos = append(dtos, toCategoryDTO(category))
	}
	c.IndentedJSON(http.StatusOK, dtos)
}

// createCategory inserts a new contact category.
//
//	> curl http://localhost:8080/api/categories --request "POST" --include --header "Content-Type: application/json" --data '{"name": "Family"}'
func (s *Service) createCategory(c *gin.Context) {
	var req apimodel.CreateCategoryRequest
	if !bindBody(c, &req) {
		return
	}
	if violations := s.validator.Struct(req); len(violations) > 0 {
		abortWithViolations(c, violations)
		return
	}
	category := model.ContactCategory{Name: req.Name, Description: req.Description}
	if err := s.gateway.CreateCategory(c.Request.Context(), s.opts.Actor, &category); err != nil {
		s.internalError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/categories/%d", category.Id))
	c.IndentedJSON(http.StatusCreated, toCategoryDTO(category))
}

// deleteCategoryByID deletes a category. Contacts of the category are kept without a category.
//
//	> curl http://localhost:8080/api/categories/3 --request "DELETE"
func (s *Service) deleteCategoryByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	err := s.gateway.DeleteCategory(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "category not found"})
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
