// Package seed fills an empty contacts table with sample data.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"gitlab.com/dirk.krummacker/contacts-page/internal/logger"
	"gitlab.com/dirk.krummacker/contacts-page/internal/model"
	"gitlab.com/dirk.krummacker/contacts-page/internal/store"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

type fixture struct {
	FirstName string  `yaml:"firstName"`
	LastName  string  `yaml:"lastName"`
	Email     *string `yaml:"email"`
	Phone     *string `yaml:"phone"`
	Address   *string `yaml:"address"`
	City      *string `yaml:"city"`
	State     *string `yaml:"state"`
	ZipCode   *string `yaml:"zipCode"`
	Country   *string `yaml:"country"`
}

type fixtures struct {
	Contacts []fixture `yaml:"contacts"`
}

// Contacts returns the embedded sample contacts.
func Contacts() ([]model.Contact, error) {
	var f fixtures
	if err := yaml.Unmarshal(fixturesYAML, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	contacts := make([]model.Contact, 0, len(f.Contacts))
	for _, c := range f.Contacts {
		contacts = append(contacts, model.Contact{
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Email:     c.Email,
			Phone:     c.Phone,
			Address:   c.Address,
			City:      c.City,
			State:     c.State,
			ZipCode:   c.ZipCode,
			Country:   c.Country,
		})
	}
	return contacts, nil
}

// Seed inserts the sample contacts through gw if the contacts table is empty and returns how many
// were inserted. A table that already holds rows is left untouched.
func Seed(ctx context.Context, gw store.Gateway, actor string, log *logger.Logger) (int, error) {
	count, err := gw.CountContacts(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	if count > 0 {
		log.Debug("contacts table not empty, skipping seed", "rows", count)
		return 0, nil
	}
	contacts, err := Contacts()
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	for i := range contacts {
		if err := gw.CreateContact(ctx, actor, &contacts[i]); err != nil {
			return i, fmt.Errorf("seed: %w", err)
		}
	}
	log.Info("seeded contacts", "rows", len(contacts))
	return len(contacts), nil
}
