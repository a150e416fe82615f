package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// CityProfile describes a seeded city: its neighbourhoods and centre point.
type CityProfile struct {
	Name      string   `yaml:"name"`
	Latitude  float64  `yaml:"latitude"`
	Longitude float64  `yaml:"longitude"`
	Areas     []string `yaml:"areas"`
}

// PriceBand is an inclusive range of average prices for two.
type PriceBand struct {
	Name string `yaml:"name"`
	Min  int    `yaml:"min"`
	Max  int    `yaml:"max"`
}

// Catalog is the vocabulary synthetic listings and reviews are drawn from.
type Catalog struct {
	Cities         []CityProfile `yaml:"cities"`
	Cuisines       []string      `yaml:"cuisines"`
	PriceBands     []PriceBand   `yaml:"price_bands"`
	NamePrefixes   []string      `yaml:"name_prefixes"`
	NameSuffixes   []string      `yaml:"name_suffixes"`
	Dishes         []string      `yaml:"dishes"`
	ReviewComments []string      `yaml:"review_comments"`
}

// DefaultCatalog parses the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog decodes and checks a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Cities) == 0 {
		return fmt.Errorf("catalog has no cities")
	}
	for _, city := range c.Cities {
		if len(city.Areas) == 0 {
			return fmt.Errorf("catalog city %q has no areas", city.Name)
		}
	}
	if len(c.Cuisines) == 0 {
		return fmt.Errorf("catalog has no cuisines")
	}
	if len(c.PriceBands) == 0 {
		return fmt.Errorf("catalog has no price bands")
	}
	for _, b := range c.PriceBands {
		if b.Min <= 0 || b.Max < b.Min {
			return fmt.Errorf("catalog price band %q is invalid", b.Name)
		}
	}
	if len(c.NamePrefixes) == 0 || len(c.NameSuffixes) == 0 {
		return fmt.Errorf("catalog has no name parts")
	}
	if len(c.Dishes) == 0 {
		return fmt.Errorf("catalog has no dishes")
	}
	return nil
}

// City returns the profile with the given name.
func (c *Catalog) City(name string) (CityProfile, bool) {
	for _, city := range c.Cities {
		if city.Name == name {
			return city, true
		}
	}
	return CityProfile{}, false
}
