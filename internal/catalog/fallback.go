package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/couplestry/storefront/internal/domain"
)

// fallbackFile is the on-disk shape of the static category hierarchy shipped
// with the storefront. It seeds navigation when the categories endpoint is
// unreachable so the browsing chrome degrades instead of disappearing.
type fallbackFile struct {
	Categories []domain.Category `yaml:"categories"`
}

// LoadFallbackCategories reads the static category hierarchy from path.
// Entries without a name are dropped.
func LoadFallbackCategories(path string) ([]domain.Category, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read fallback categories: %w", err)
	}
	var file fallbackFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("catalog: parse fallback categories: %w", err)
	}
	categories := make([]domain.Category, 0, len(file.Categories))
	for _, c := range file.Categories {
		if c.Name == "" {
			continue
		}
		categories = append(categories, c)
	}
	return categories, nil
}
