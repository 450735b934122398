package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/raushankrgupta/vogue-styler/models"
)

// Catalog is the read-only style option dataset injected at startup.
type Catalog struct {
	Version int                  `yaml:"version"`
	Options []models.StyleOption `yaml:"options"`
}

// Load reads a catalog from a YAML file. An empty path returns the built-in
// default set.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(c.Options) == 0 {
		return nil, fmt.Errorf("catalog %s contains no options", path)
	}

	seen := make(map[string]bool, len(c.Options))
	for _, opt := range c.Options {
		if opt.ID == "" {
			return nil, fmt.Errorf("catalog %s contains an option without an id", path)
		}
		if seen[opt.ID] {
			return nil, fmt.Errorf("catalog %s contains duplicate option id %q", path, opt.ID)
		}
		seen[opt.ID] = true
	}
	return &c, nil
}

// Find returns the option with the given id, or nil.
func (c *Catalog) Find(id string) *models.StyleOption {
	for i := range c.Options {
		if c.Options[i].ID == id {
			return &c.Options[i]
		}
	}
	return nil
}

// Filter returns the options in a category visible to the given gender.
// Unisex entries match every gender.
func (c *Catalog) Filter(cat models.StyleCategory, gender models.Gender) []models.StyleOption {
	out := []models.StyleOption{}
	for _, opt := range c.Options {
		if opt.Category != cat {
			continue
		}
		if opt.Gender == gender || opt.Gender == models.GenderUnisex {
			out = append(out, opt)
		}
	}
	return out
}

// PresetStyles are the suggested free-text vibes shown on the Style tab.
var PresetStyles = []string{"Gentle", "Bold", "Sharp", "Retro", "Sweet", "Minimal", "Punk", "Gothic"}

// TrendingTags feed the search view.
var TrendingTags = []string{"#OldMoney", "#Minimalism", "#SummerVacation", "#Cyberpunk", "#FrenchRomance", "#BusinessElite"}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Version: 1,
		Options: []models.StyleOption{
			{ID: "fh1", Name: "French Bob", Category: models.CategoryHairstyle, Gender: models.GenderFemale, Description: "sleek short bob"},
			{ID: "fh2", Name: "Loose Waves", Category: models.CategoryHairstyle, Gender: models.GenderFemale, Description: "long wavy curls"},
			{ID: "fh3", Name: "Natural Curls", Category: models.CategoryHairstyle, Gender: models.GenderFemale, Description: "voluminous natural curls"},
			{ID: "ft1", Name: "Silk Blouse", Category: models.CategoryTop, Gender: models.GenderFemale, Description: "white silk blouse"},
			{ID: "ft2", Name: "Biker Jacket", Category: models.CategoryTop, Gender: models.GenderFemale, Description: "black leather jacket"},
			{ID: "fb1", Name: "Pleated Skirt", Category: models.CategoryBottom, Gender: models.GenderFemale, Description: "plaid pleated mini skirt"},
			{ID: "fb2", Name: "Satin Skirt", Category: models.CategoryBottom, Gender: models.GenderFemale, Description: "satin midi skirt"},
			{ID: "mh1", Name: "Buzz Cut", Category: models.CategoryHairstyle, Gender: models.GenderMale, Description: "short buzz cut"},
			{ID: "mh2", Name: "Slick Back", Category: models.CategoryHairstyle, Gender: models.GenderMale, Description: "slicked-back hair"},
			{ID: "mh3", Name: "Middle Part", Category: models.CategoryHairstyle, Gender: models.GenderMale, Description: "softly curled middle part"},
			{ID: "mt1", Name: "Business Suit", Category: models.CategoryTop, Gender: models.GenderMale, Description: "navy tailored suit"},
			{ID: "mt2", Name: "Minimal Hoodie", Category: models.CategoryTop, Gender: models.GenderMale, Description: "grey minimal hoodie"},
			{ID: "mb1", Name: "Cargo Pants", Category: models.CategoryBottom, Gender: models.GenderMale, Description: "khaki cargo pants"},
			{ID: "mb2", Name: "Slim Jeans", Category: models.CategoryBottom, Gender: models.GenderMale, Description: "dark slim jeans"},
		},
	}
}
