package catalog

import (
	"github.com/google/uuid"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/domain"
)

// namespace scopes the name-based record identifiers.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/CongLeSolutionX/Corticogenesis-Disorders"))

// DisorderID returns the stable identifier for a disorder name.
func DisorderID(name string) string {
	return uuid.NewSHA1(namespace, []byte("disorder/"+name)).String()
}

// GeneID returns the stable identifier for a gene within its parent disorder.
func GeneID(disorderName, geneName string) string {
	return uuid.NewSHA1(namespace, []byte("gene/"+disorderName+"/"+geneName)).String()
}

// AssignIDs returns a copy of records with every empty identifier filled in.
// Identifiers that are already set are kept as-is.
func AssignIDs(records []domain.Disorder) []domain.Disorder {
	out := domain.CloneAll(records)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = DisorderID(out[i].Name)
		}
		for j := range out[i].Genes {
			if out[i].Genes[j].ID == "" {
				out[i].Genes[j].ID = GeneID(out[i].Name, out[i].Genes[j].Name)
			}
		}
	}
	return out
}
