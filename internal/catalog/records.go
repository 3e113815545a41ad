// Package catalog holds the compiled-in disorder records and the helpers that
// load, validate and export them.
package catalog

import (
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/domain"
)

// DefaultTitle is shown above the cards when no title is configured.
const DefaultTitle = "Corticogenesis Disorders"

var builtin = AssignIDs([]domain.Disorder{
	{
		Name:       "Lissencephaly",
		CommonName: "Smooth brain",
		Icon:       "brain.head.profile",
		Cause:      "Failure of neuronal migration between the 12th and 24th weeks of gestation, leaving the cortex without its normal folds (gyri and sulci).",
		Symptoms:   "Severe psychomotor retardation, failure to thrive, seizures, muscle spasticity or hypotonia, and feeding difficulties.",
		Genes: []domain.Gene{
			{
				Name:        "LIS1 (PAFAH1B1)",
				Description: "Regulates the dynein motor complex that pulls the nucleus forward during radial neuronal migration; heterozygous loss causes posterior-predominant lissencephaly.",
			},
			{
				Name:        "DCX (Doublecortin)",
				Description: "X-linked microtubule-associated protein that stabilises microtubules in migrating neurons; mutations cause anterior lissencephaly in males and subcortical band heterotopia in females.",
			},
		},
	},
	{
		Name:       "Primary Microcephaly",
		CommonName: "Small brain",
		Icon:       "circle.dashed",
		Cause:      "Reduced proliferation of neural progenitor cells, usually through defects in mitotic spindle orientation or centrosome function, producing too few cortical neurons.",
		Symptoms:   "Head circumference well below average at birth, intellectual disability of variable severity, and delayed motor and speech development.",
		Genes: []domain.Gene{
			{
				Name:        "MCPH1 (Microcephalin)",
				Description: "Controls chromosome condensation and the DNA damage checkpoint; loss leads to premature chromosome condensation and early progenitor depletion.",
			},
			{
				Name:        "ASPM",
				Description: "Spindle pole protein that keeps progenitor divisions symmetric; the most frequently mutated gene in autosomal recessive primary microcephaly.",
			},
			{
				Name:        "CDK5RAP2",
				Description: "Centrosomal protein that anchors the gamma-tubulin ring complex and supports spindle assembly in dividing neural progenitors.",
			},
		},
	},
	{
		Name:       "Periventricular Nodular Heterotopia",
		CommonName: "Misplaced neurons",
		Icon:       "circle.grid.cross",
		Cause:      "Neurons fail to leave the ventricular zone and remain as nodules lining the lateral ventricles instead of migrating to the cortex.",
		Symptoms:   "Seizures beginning in adolescence, usually normal intelligence, occasional dyslexia, and cardiovascular or connective tissue problems in FLNA carriers.",
		Genes: []domain.Gene{
			{
				Name:        "FLNA (Filamin A)",
				Description: "X-linked actin-crosslinking protein required for neurons to begin migrating; mutations are mostly seen in females and are usually lethal in males.",
			},
			{
				Name:        "ARFGEF2",
				Description: "Regulates vesicle trafficking that delivers adhesion molecules to the cell surface; recessive mutations cause heterotopia with microcephaly.",
			},
		},
	},
})

// Records returns a copy of the compiled-in catalog in display order.
func Records() []domain.Disorder {
	return domain.CloneAll(builtin)
}
