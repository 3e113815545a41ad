package resources

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/cache"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/domain"
)

// ResourceManager manages MCP resources and their providers
type ResourceManager struct {
	logger    *logrus.Logger
	providers []namedProvider
	cache     *cache.Cache[*ResourceContent]
	mutex     sync.RWMutex
}

type namedProvider struct {
	name     string
	provider ResourceProvider
}

// ResourceProvider defines the interface for resource providers
type ResourceProvider interface {
	// GetResource retrieves a resource by URI
	GetResource(ctx context.Context, uri string) (*ResourceContent, error)

	// ListResources lists the concrete resources the provider serves
	ListResources(ctx context.Context) (*ResourceList, error)

	// SupportsURI checks if this provider can handle the given URI
	SupportsURI(uri string) bool

	// GetProviderInfo returns information about this provider
	GetProviderInfo() ProviderInfo
}

// ResourceContent represents the content of a resource. Text is the
// serialized form sent to clients.
type ResourceContent struct {
	URI          string                 `json:"uri"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description,omitempty"`
	MimeType     string                 `json:"mimeType"`
	Text         string                 `json:"-"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	LastModified time.Time              `json:"lastModified"`
	ETag         string                 `json:"etag,omitempty"`
}

// ResourceList represents a list of available resources
type ResourceList struct {
	Resources []ResourceInfo `json:"resources"`
	Total     int            `json:"total"`
}

// ResourceInfo provides metadata about a resource
type ResourceInfo struct {
	URI          string                 `json:"uri"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description,omitempty"`
	MimeType     string                 `json:"mimeType"`
	Size         int64                  `json:"size,omitempty"`
	LastModified time.Time              `json:"lastModified"`
	Tags         []string               `json:"tags,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// Meta returns the metadata sent to clients with the resource's contents.
func (c *ResourceContent) Meta() map[string]interface{} {
	meta := make(map[string]interface{}, len(c.Metadata)+2)
	for k, v := range c.Metadata {
		meta[k] = v
	}
	if c.ETag != "" {
		meta["etag"] = c.ETag
	}
	if !c.LastModified.IsZero() {
		meta["lastModified"] = c.LastModified.UTC().Format(time.RFC3339)
	}
	return meta
}

// Meta returns the metadata sent to clients when listing the resource.
func (i ResourceInfo) Meta() map[string]interface{} {
	meta := make(map[string]interface{}, len(i.Metadata)+2)
	for k, v := range i.Metadata {
		meta[k] = v
	}
	if len(i.Tags) > 0 {
		meta["tags"] = i.Tags
	}
	if !i.LastModified.IsZero() {
		meta["lastModified"] = i.LastModified.UTC().Format(time.RFC3339)
	}
	return meta
}

// ProviderInfo contains metadata about a resource provider
type ProviderInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Version     string   `json:"version"`
	URIPatterns []string `json:"uriPatterns"`
}

// NewResourceManager creates a new resource manager whose content cache
// holds up to cfg.MaxItems entries for cfg.TTL each.
func NewResourceManager(logger *logrus.Logger, cfg domain.CacheConfig) *ResourceManager {
	return &ResourceManager{
		logger: logger,
		cache:  cache.New[*ResourceContent](cfg.MaxItems, cfg.TTL),
	}
}

// RegisterProvider registers a new resource provider. Providers are
// consulted in registration order.
func (rm *ResourceManager) RegisterProvider(name string, provider ResourceProvider) {
	rm.mutex.Lock()
	defer rm.mutex.Unlock()

	rm.providers = append(rm.providers, namedProvider{name: name, provider: provider})
	rm.logger.WithFields(logrus.Fields{
		"provider": name,
		"patterns": provider.GetProviderInfo().URIPatterns,
	}).Info("Registered resource provider")
}

// GetResource retrieves a resource by URI. Unknown URIs wrap
// domain.ErrNotFound.
func (rm *ResourceManager) GetResource(ctx context.Context, uri string) (*ResourceContent, error) {
	rm.logger.WithField("uri", uri).Debug("Getting resource")

	if cached, ok := rm.cache.Get(uri); ok {
		rm.logger.WithField("uri", uri).Debug("Resource cache hit")
		return cached, nil
	}

	provider := rm.findProvider(uri)
	if provider == nil {
		return nil, fmt.Errorf("no provider for URI %s: %w", uri, domain.ErrNotFound)
	}

	content, err := provider.GetResource(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("provider error for URI %s: %w", uri, err)
	}

	rm.cache.Set(uri, content)

	rm.logger.WithFields(logrus.Fields{
		"uri":      uri,
		"provider": provider.GetProviderInfo().Name,
		"size":     len(content.Text),
	}).Debug("Resource retrieved")

	return content, nil
}

// ListResources lists all available resources across providers.
func (rm *ResourceManager) ListResources(ctx context.Context) (*ResourceList, error) {
	allResources := make([]ResourceInfo, 0)

	rm.mutex.RLock()
	defer rm.mutex.RUnlock()

	for _, np := range rm.providers {
		list, err := np.provider.ListResources(ctx)
		if err != nil {
			rm.logger.WithError(err).WithField("provider", np.name).
				Warn("Failed to list resources from provider")
			continue
		}
		allResources = append(allResources, list.Resources...)
	}

	return &ResourceList{
		Resources: allResources,
		Total:     len(allResources),
	}, nil
}

// findProvider finds the appropriate provider for a URI
func (rm *ResourceManager) findProvider(uri string) ResourceProvider {
	rm.mutex.RLock()
	defer rm.mutex.RUnlock()

	for _, np := range rm.providers {
		if np.provider.SupportsURI(uri) {
			return np.provider
		}
	}
	return nil
}

// GetProviderInfo returns information about all registered providers
func (rm *ResourceManager) GetProviderInfo() []ProviderInfo {
	rm.mutex.RLock()
	defer rm.mutex.RUnlock()

	info := make([]ProviderInfo, 0, len(rm.providers))
	for _, np := range rm.providers {
		info = append(info, np.provider.GetProviderInfo())
	}
	return info
}

// GetCacheStats returns content cache statistics
func (rm *ResourceManager) GetCacheStats() cache.Stats {
	return rm.cache.Stats()
}
