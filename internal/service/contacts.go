package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/contacts-page/internal/model"
	"gitlab.com/dirk.krummacker/contacts-page/internal/store"
	"gitlab.com/dirk.krummacker/contacts-page/internal/validation"
	apimodel "gitlab.com/dirk.krummacker/contacts-page/pkg/model"
)

// findContacts responds with a page of contacts as JSON.
//
// The URL parameters 'firstNameContains', 'lastNameContains', 'emailContains' and 'phoneContains'
// restrict the result to contacts whose field contains the given text, ignoring case. Empty
// parameters are ignored.
//
// The URL parameters 'page' (default 1) and 'recordsPerPage' (default 100) select the page of the
// filtered result, which is sorted by id. A page beyond the end yields an empty list.
//
// REST API calls:
//
//	> curl "http://localhost:8080/api/contacts"
//	> curl "http://localhost:8080/api/contacts?lastNameContains=doe"
//	> curl "http://localhost:8080/api/contacts?page=2&recordsPerPage=20"
func (s *Service) findContacts(c *gin.Context) {
	var query apimodel.ListContactsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid paging parameter"})
		return
	}
	contacts, err := s.gateway.FindContacts(c.Request.Context(), model.ContactFilter{
		Page:              query.Page,
		RecordsPerPage:    query.RecordsPerPage,
		FirstNameContains: query.FirstNameContains,
		LastNameContains:  query.LastNameContains,
		EmailContains:     query.EmailContains,
		PhoneContains:     query.PhoneContains,
	})
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, toContactDTOs(contacts))
}

// findContactByID locates the contact whose ID value matches the id parameter of the request URL,
// then returns that contact as a response.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/56
func (s *Service) findContactByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	contact, err := s.gateway.FindContactByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, toContactDTO(*contact))
}

// createContact validates the contact specified in the request's JSON and inserts it into the
// database. It responds with the stored contact including the newly assigned id and the audit
// fields, and with its URL in the Location header. All broken rules are reported at once.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts --request "POST" --include --header "Content-Type: application/json" --data '{"firstName": "John", "lastName": "Doe", "phone": "1234567890"}'
func (s *Service) createContact(c *gin.Context) {
	var req apimodel.CreateContactRequest
	if !bindBody(c, &req) {
		return
	}
	violations, err := s.validate(c.Request.Context(), req, req.CategoryId)
	if err != nil {
		s.internalError(c, err)
		return
	}
	if len(violations) > 0 {
		abortWithViolations(c, violations)
		return
	}

	contact := newContact(req)
	if err := s.gateway.CreateContact(c.Request.Context(), s.opts.Actor, &contact); err != nil {
		s.internalError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/contacts/%d", contact.Id))
	c.IndentedJSON(http.StatusCreated, toContactDTO(contact))
}

// updateContactByID updates the contact whose ID value matches the id parameter of the request
// URL with the values specified in the JSON (and only those). Fields that are absent or null keep
// their stored value. The call responds with NO CONTENT.
//
// Example REST API calls:
//
//	> curl http://localhost:8080/api/contacts/56 --request "PUT" --include --header "Content-Type: application/json" --data '{"phone": "+1 5551234567"}'
//	> curl http://localhost:8080/api/contacts/56 --request "PUT" --include --header "Content-Type: application/json" --data '{"city": "Springfield", "zipCode": "12345-6789"}'
func (s *Service) updateContactByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req apimodel.UpdateContactRequest
	if !bindBody(c, &req) {
		return
	}

	ctx := c.Request.Context()
	contact, err := s.gateway.FindContactByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}

	violations, err := s.validate(ctx, req, req.CategoryId)
	if err != nil {
		s.internalError(c, err)
		return
	}
	if len(violations) > 0 {
		abortWithViolations(c, violations)
		return
	}

	applyUpdate(contact, req)
	err = s.gateway.UpdateContact(ctx, s.opts.Actor, contact)
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteContactByID deletes the contact whose ID value matches the id parameter of the request URL
// from the database.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/56 --request "DELETE"
func (s *Service) deleteContactByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	err := s.gateway.DeleteContact(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// validate checks the payload rules and, if the payload references a category, that the category
// exists. The error is only set if the category lookup itself failed.
func (s *Service) validate(ctx context.Context, payload any, categoryID *int64) (validation.Violations, error) {
	violations := s.validator.Struct(payload)
	if categoryID == nil || *categoryID <= 0 {
		return violations, nil
	}
	_, err := s.gateway.FindCategoryByID(ctx, *categoryID)
	if errors.Is(err, store.ErrNotFound) {
		return append(violations, validation.Violation{Field: "categoryId", Message: validation.CategoryNotFound}), nil
	}
	if err != nil {
		return nil, err
	}
	return violations, nil
}

func abortWithViolations(c *gin.Context, violations validation.Violations) {
	c.AbortWithStatusJSON(http.StatusBadRequest, apimodel.ValidationProblem{
		Message: "validation failed",
		Errors:  violations.ByField(),
	})
}
