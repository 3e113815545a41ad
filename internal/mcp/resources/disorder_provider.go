package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/domain"
)

// URI scheme for catalog resources.
const (
	DisordersURI        = "catalog://disorders"
	DisorderURIPrefix   = DisordersURI + "/"
	DisorderURITemplate = DisorderURIPrefix + "{id}"
)

// CatalogSource is the read side of the record provider.
type CatalogSource interface {
	domain.RecordProvider
	LoadedAt() time.Time
}

// DisorderURI returns the resource URI of the disorder with the given id.
func DisorderURI(id string) string {
	return DisorderURIPrefix + id
}

// DisorderResourceProvider serves the catalog as JSON resources: the whole
// list under DisordersURI and one resource per disorder below it.
type DisorderResourceProvider struct {
	source CatalogSource
	logger *logrus.Logger
}

// NewDisorderResourceProvider creates a provider over source.
func NewDisorderResourceProvider(source CatalogSource, logger *logrus.Logger) *DisorderResourceProvider {
	return &DisorderResourceProvider{source: source, logger: logger}
}

// GetResource implements ResourceProvider.
func (p *DisorderResourceProvider) GetResource(ctx context.Context, uri string) (*ResourceContent, error) {
	p.logger.WithField("uri", uri).Debug("Getting disorder resource")

	var content interface{}
	var name, description, etagKey string
	metadata := map[string]interface{}{"resource_type": "disorder"}

	switch {
	case uri == DisordersURI:
		records := p.source.Records()
		content = map[string]interface{}{
			"count":     len(records),
			"disorders": records,
		}
		name = "Corticogenesis disorders"
		description = "Every disorder in catalog order, with its associated genes"
		etagKey = "all"
		metadata["resource_type"] = "catalog"
		metadata["count"] = len(records)

	case strings.HasPrefix(uri, DisorderURIPrefix):
		id := strings.TrimPrefix(uri, DisorderURIPrefix)
		d, err := p.source.Get(id)
		if err != nil {
			return nil, err
		}
		content = d
		name = d.Name
		description = d.CommonName
		etagKey = d.ID
		metadata["genes"] = len(d.Genes)

	default:
		return nil, fmt.Errorf("unsupported disorder URI %s: %w", uri, domain.ErrNotFound)
	}

	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal disorder resource: %w", err)
	}

	loadedAt := p.source.LoadedAt()
	return &ResourceContent{
		URI:          uri,
		Name:         name,
		Description:  description,
		MimeType:     "application/json",
		Text:         string(data),
		LastModified: loadedAt,
		ETag:         fmt.Sprintf("%s-%d", etagKey, loadedAt.Unix()),
		Metadata:     metadata,
	}, nil
}

// ListResources implements ResourceProvider.
func (p *DisorderResourceProvider) ListResources(ctx context.Context) (*ResourceList, error) {
	records := p.source.Records()
	loadedAt := p.source.LoadedAt()

	resources := make([]ResourceInfo, 0, len(records)+1)
	resources = append(resources, ResourceInfo{
		URI:          DisordersURI,
		Name:         "Corticogenesis disorders",
		Description:  "Every disorder in catalog order, with its associated genes",
		MimeType:     "application/json",
		LastModified: loadedAt,
		Tags:         []string{"catalog", "disorders"},
		Metadata:     map[string]interface{}{"count": len(records)},
	})
	for _, d := range records {
		resources = append(resources, p.infoFor(d, loadedAt))
	}

	// sizes match the text GetResource serves
	for i := range resources {
		content, err := p.GetResource(ctx, resources[i].URI)
		if err != nil {
			return nil, err
		}
		resources[i].Size = int64(len(content.Text))
	}

	return &ResourceList{Resources: resources, Total: len(resources)}, nil
}

// SupportsURI implements ResourceProvider.
func (p *DisorderResourceProvider) SupportsURI(uri string) bool {
	return uri == DisordersURI || strings.HasPrefix(uri, DisorderURIPrefix)
}

// GetProviderInfo implements ResourceProvider.
func (p *DisorderResourceProvider) GetProviderInfo() ProviderInfo {
	return ProviderInfo{
		Name:        "disorders",
		Description: "Corticogenesis disorder records",
		Version:     "1.0.0",
		URIPatterns: []string{DisordersURI, DisorderURITemplate},
	}
}

func (p *DisorderResourceProvider) infoFor(d domain.Disorder, loadedAt time.Time) ResourceInfo {
	return ResourceInfo{
		URI:          DisorderURI(d.ID),
		Name:         d.Name,
		Description:  d.CommonName,
		MimeType:     "application/json",
		LastModified: loadedAt,
		Tags:         append([]string{"disorder"}, d.GeneNames()...),
		Metadata:     map[string]interface{}{"genes": len(d.Genes)},
	}
}

// IsNotFound reports whether err means the resource does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
