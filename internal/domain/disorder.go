package domain

// Gene is a gene associated with a disorder. It is owned by its parent Disorder.
type Gene struct {
	ID          string `json:"id" yaml:"id,omitempty"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Disorder represents one developmental brain disorder in the catalog
type Disorder struct {
	ID         string `json:"id" yaml:"id,omitempty"`
	Name       string `json:"name" yaml:"name"`
	CommonName string `json:"common_name" yaml:"common_name"`
	Icon       string `json:"icon" yaml:"icon"`
	Cause      string `json:"cause" yaml:"cause"`
	Symptoms   string `json:"symptoms" yaml:"symptoms"`
	Genes      []Gene `json:"genes" yaml:"genes"`
}

// Clone returns a deep copy of the disorder. The gene slice of the copy never
// aliases the receiver's, so callers may modify it freely.
func (d Disorder) Clone() Disorder {
	out := d
	out.Genes = make([]Gene, len(d.Genes))
	copy(out.Genes, d.Genes)
	return out
}

// HasGenes reports whether the disorder lists any associated genes
func (d Disorder) HasGenes() bool {
	return len(d.Genes) > 0
}

// GeneNames returns the gene names in catalog order
func (d Disorder) GeneNames() []string {
	names := make([]string, 0, len(d.Genes))
	for _, g := range d.Genes {
		names = append(names, g.Name)
	}
	return names
}

// CloneAll deep-copies a record sequence, preserving order.
func CloneAll(records []Disorder) []Disorder {
	out := make([]Disorder, len(records))
	for i, d := range records {
		out[i] = d.Clone()
	}
	return out
}
