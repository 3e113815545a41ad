package catalog

import (
	"fmt"
	"strings"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/domain"
)

// Validate checks the record invariants: disorders and genes are named, genes
// are described, and identifiers are unique within their collections. It
// returns the first *domain.ValidationError found.
func Validate(records []domain.Disorder) error {
	disorderIDs := make(map[string]int, len(records))
	for i, d := range records {
		field := fmt.Sprintf("disorders[%d]", i)
		if strings.TrimSpace(d.Name) == "" {
			return domain.NewValidationError(field+".name", "must not be empty", d.Name)
		}
		if d.ID == "" {
			return domain.NewValidationError(field+".id", "must not be empty", d.ID)
		}
		if prev, ok := disorderIDs[d.ID]; ok {
			return domain.NewValidationError(field+".id", fmt.Sprintf("duplicates disorders[%d]", prev), d.ID)
		}
		disorderIDs[d.ID] = i

		geneIDs := make(map[string]int, len(d.Genes))
		for j, g := range d.Genes {
			gfield := fmt.Sprintf("%s.genes[%d]", field, j)
			if strings.TrimSpace(g.Name) == "" {
				return domain.NewValidationError(gfield+".name", "must not be empty", g.Name)
			}
			if strings.TrimSpace(g.Description) == "" {
				return domain.NewValidationError(gfield+".description", "must not be empty", g.Description)
			}
			if g.ID == "" {
				return domain.NewValidationError(gfield+".id", "must not be empty", g.ID)
			}
			if prev, ok := geneIDs[g.ID]; ok {
				return domain.NewValidationError(gfield+".id", fmt.Sprintf("duplicates %s.genes[%d]", field, prev), g.ID)
			}
			geneIDs[g.ID] = j
		}
	}
	return nil
}
