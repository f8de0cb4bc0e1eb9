package catalog

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cell is one (account, region) pair of the deployment matrix.
type Cell struct {
	Account string
	Region  string
}

func (c Cell) String() string {
	return c.Account + "/" + c.Region
}

// Matrix answers which cells an application is expected to be deployed to.
type Matrix interface {
	ExpectedCells(application string) []Cell
}

// Catalog is the read-only set of applications, accounts and regions. It is
// safe for concurrent use once built.
type Catalog struct {
	applications []string
	accounts     []string
	regions      []string
	cells        []Cell
}

type fileConfig struct {
	Applications []string `mapstructure:"applications"`
	Accounts     []string `mapstructure:"accounts"`
	Regions      []string `mapstructure:"regions"`
}

// New validates the lists and precomputes the accounts x regions cross-product.
func New(applications, accounts, regions []string) (*Catalog, error) {
	apps, err := normalize("applications", applications)
	if err != nil {
		return nil, err
	}
	accts, err := normalize("accounts", accounts)
	if err != nil {
		return nil, err
	}
	regs, err := normalize("regions", regions)
	if err != nil {
		return nil, err
	}

	cells := make([]Cell, 0, len(accts)*len(regs))
	for _, account := range accts {
		for _, region := range regs {
			cells = append(cells, Cell{Account: account, Region: region})
		}
	}

	return &Catalog{
		applications: apps,
		accounts:     accts,
		regions:      regs,
		cells:        cells,
	}, nil
}

// Default returns the built-in catalog used when no catalog file is configured.
func Default() *Catalog {
	c, err := New(
		[]string{
			"application_one",
			"application_two",
			"application_three",
			"application_four",
			"application_five",
			"application_six",
			"application_seven",
			"application_eight",
			"application_nine",
			"application_ten",
		},
		[]string{"staging", "prod_one", "prod_two", "prod_three", "prod_four", "prod_five"},
		[]string{"primary", "secondary"},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a YAML catalog file. An empty path yields the default catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}

	c, err := New(fc.Applications, fc.Accounts, fc.Regions)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Applications returns the application names in catalog order.
func (c *Catalog) Applications() []string {
	return append([]string(nil), c.applications...)
}

// Accounts returns the account names in catalog order.
func (c *Catalog) Accounts() []string {
	return append([]string(nil), c.accounts...)
}

// Regions returns the region names in catalog order.
func (c *Catalog) Regions() []string {
	return append([]string(nil), c.regions...)
}

// ExpectedCells returns every account x region cell, accounts outermost.
// The matrix is currently the same for every application.
func (c *Catalog) ExpectedCells(string) []Cell {
	return c.cells
}

func normalize(field string, values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%s must not be empty", field)
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for i, raw := range values {
		value := strings.TrimSpace(raw)
		if value == "" {
			return nil, fmt.Errorf("%s[%d] is blank", field, i)
		}
		if _, dup := seen[value]; dup {
			return nil, fmt.Errorf("%s contains duplicate %q", field, value)
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out, nil
}
