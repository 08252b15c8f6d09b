package seeder

import (
	"bytes"
	_ "embed"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Defaults returns the seeders for the bundled demo catalog.
func Defaults() ([]Seeder, error) {
	f, err := ParseCatalog(bytes.NewReader(defaultCatalog))
	if err != nil {
		return nil, err
	}
	return []Seeder{CatalogSeeder{Catalog: f}}, nil
}
