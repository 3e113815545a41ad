package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisorder_Clone(t *testing.T) {
	original := Disorder{
		ID:   "d1",
		Name: "Lissencephaly",
		Genes: []Gene{
			{ID: "g1", Name: "LIS1 (PAFAH1B1)", Description: "dynein regulator"},
		},
	}

	clone := original.Clone()
	clone.Genes[0].Name = "changed"
	clone.Genes = append(clone.Genes, Gene{Name: "extra"})

	assert.Equal(t, "LIS1 (PAFAH1B1)", original.Genes[0].Name)
	assert.Len(t, original.Genes, 1)
}

func TestDisorder_CloneEmptyGenes(t *testing.T) {
	clone := Disorder{Name: "No genes"}.Clone()

	assert.NotNil(t, clone.Genes)
	assert.False(t, clone.HasGenes())
}

func TestDisorder_GeneNames(t *testing.T) {
	d := Disorder{Genes: []Gene{{Name: "A"}, {Name: "B"}}}

	assert.Equal(t, []string{"A", "B"}, d.GeneNames())
	assert.True(t, d.HasGenes())
}

func TestCloneAll(t *testing.T) {
	records := []Disorder{
		{Name: "first", Genes: []Gene{{Name: "x"}}},
		{Name: "second"},
	}

	out := CloneAll(records)
	out[0].Genes[0].Name = "y"

	assert.Equal(t, "x", records[0].Genes[0].Name)
	assert.Equal(t, []string{"first", "second"}, []string{out[0].Name, out[1].Name})
}
