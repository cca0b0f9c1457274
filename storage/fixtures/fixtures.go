// Package fixtures holds the embedded seed data: the demo business, the industry templates,
// payment links and transactions.
package fixtures

import (
	"embed"
	"encoding/json"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/manishreddyt/easy-collections/core/collections"
	"github.com/manishreddyt/easy-collections/core/paymentlink"
	"github.com/manishreddyt/easy-collections/core/transaction"
)

const (
	demoStateFile    = "data/demo_state.yaml"
	templatesFile    = "data/templates.yaml"
	paymentLinksFile = "data/payment_links.yaml"
	transactionsFile = "data/transactions.yaml"
)

//go:embed data
var dataFS embed.FS

// Catalog serves fresh copies of the seed data on every call.
type Catalog struct{}

var _ collections.Catalog = (*Catalog)(nil)

func New() *Catalog {
	return &Catalog{}
}

func (Catalog) Templates() ([]collections.TemplateConfig, error) {
	var templates []collections.TemplateConfig
	if err := load(templatesFile, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (Catalog) DemoState() (collections.State, error) {
	var state collections.State
	if err := load(demoStateFile, &state); err != nil {
		return collections.State{}, err
	}
	return state, nil
}

func (Catalog) Links() ([]paymentlink.Link, error) {
	var links []paymentlink.Link
	if err := load(paymentLinksFile, &links); err != nil {
		return nil, err
	}
	return links, nil
}

func (Catalog) Transactions() ([]transaction.Transaction, error) {
	var transactions []transaction.Transaction
	if err := load(transactionsFile, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// load decodes a YAML file into dst through JSON, so the models' json tags
// and the null types' JSON decoding apply.
func load(name string, dst any) error {
	data, err := dataFS.ReadFile(name)
	if err != nil {
		return errors.Wrapf(err, "reading %s", name)
	}
	var doc any
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return errors.Wrapf(err, "parsing %s", name)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrapf(err, "converting %s", name)
	}
	if err = json.Unmarshal(raw, dst); err != nil {
		return errors.Wrapf(err, "decoding %s", name)
	}
	return nil
}
