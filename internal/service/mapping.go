package service

import (
	"gitlab.com/dirk.krummacker/contacts-page/internal/model"
	apimodel "gitlab.com/dirk.krummacker/contacts-page/pkg/model"
)

func toContactDTO(c model.Contact) apimodel.Contact {
	return apimodel.Contact{
		Id:             c.Id,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		City:           c.City,
		State:          c.State,
		ZipCode:        c.ZipCode,
		Country:        c.Country,
		CategoryId:     c.CategoryId,
		CreatedBy:      c.CreatedBy,
		CreatedOn:      c.CreatedOn,
		LastModifiedBy: c.LastModifiedBy,
		LastModifiedOn: c.LastModifiedOn,
	}
}

// toContactDTOs never returns nil, so that an empty result is rendered as [].
func toContactDTOs(contacts []model.Contact) []apimodel.Contact {
	dtos := make([]apimodel.Contact, 0, len(contacts))
	for _, c := range contacts {
		dtos = append(dtos, toContactDTO(c))
	}
	return dtos
}

// newContact copies the client supplied fields. Id and audit fields are left to the database and
// the audit hook.
func newContact(req apimodel.CreateContactRequest) model.Contact {
	return model.Contact{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		ZipCode:    req.ZipCode,
		Country:    req.Country,
		CategoryId: req.CategoryId,
	}
}

// applyUpdate overwrites the fields of c for which req carries a value.
func applyUpdate(c *model.Contact, req apimodel.UpdateContactRequest) {
	if req.FirstName != nil {
		c.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		c.LastName = *req.LastName
	}
	overwrite(&c.Email, req.Email)
	overwrite(&c.Phone, req.Phone)
	overwrite(&c.Address, req.Address)
	overwrite(&c.City, req.City)
	overwrite(&c.State, req.State)
	overwrite(&c.ZipCode, req.ZipCode)
	overwrite(&c.Country, req.Country)
	if req.CategoryId != nil {
		c.CategoryId = req.CategoryId
	}
}

func overwrite(field **string, value *string) {
	if value != nil {
		*field = value
	}
}

func toCategoryDTO(c model.ContactCategory) apimodel.Category {
	return apimodel.Category{Id: c.Id, Name: c.Name, Description: c.Description}
}
