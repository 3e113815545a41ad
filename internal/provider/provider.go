// Package provider exposes the disorder catalog to presentation surfaces as an
// observable value that is populated once and never changes afterwards.
package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/catalog"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/domain"
)

// Listener receives the catalog value. Since the value never changes after
// construction, a listener is called exactly once.
type Listener func(records []domain.Disorder)

// Provider holds the ordered disorder sequence.
//
// The sequence is written in New and only read afterwards, so concurrent
// readers need no locking. Every accessor returns a deep copy.
type Provider struct {
	records  []domain.Disorder
	byID     map[string]int
	loadedAt time.Time
	logger   *logrus.Logger
}

var _ domain.RecordProvider = (*Provider)(nil)

// New creates a provider over a copy of records. Missing identifiers are
// filled in; the result must satisfy catalog.Validate.
func New(records []domain.Disorder, logger *logrus.Logger) (*Provider, error) {
	if logger == nil {
		logger = logrus.New()
	}

	records = catalog.AssignIDs(records)
	if err := catalog.Validate(records); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	p := &Provider{
		records:  records,
		byID:     make(map[string]int, len(records)),
		loadedAt: time.Now().UTC(),
		logger:   logger,
	}
	for i, d := range p.records {
		p.byID[d.ID] = i
	}

	logger.WithFields(logrus.Fields{
		"records": len(p.records),
		"genes":   p.geneCount(),
	}).Info("Catalog loaded")

	return p, nil
}

// Default creates a provider over the compiled-in catalog.
func Default(logger *logrus.Logger) *Provider {
	p, err := New(catalog.Records(), logger)
	if err != nil {
		panic(err)
	}
	return p
}

// Records returns the full sequence in source order.
func (p *Provider) Records() []domain.Disorder {
	return domain.CloneAll(p.records)
}

// Len returns the number of records.
func (p *Provider) Len() int {
	return len(p.records)
}

// LoadedAt returns when the provider was populated.
func (p *Provider) LoadedAt() time.Time {
	return p.loadedAt
}

// Get returns the disorder with the given identifier.
func (p *Provider) Get(id string) (domain.Disorder, error) {
	i, ok := p.byID[id]
	if !ok {
		return domain.Disorder{}, fmt.Errorf("disorder %q: %w", id, domain.ErrNotFound)
	}
	return p.records[i].Clone(), nil
}

// FindByName returns the disorder whose name or common name equals name,
// ignoring case and surrounding whitespace.
func (p *Provider) FindByName(name string) (domain.Disorder, error) {
	name = strings.TrimSpace(name)
	for _, d := range p.records {
		if strings.EqualFold(d.Name, name) || strings.EqualFold(d.CommonName, name) {
			return d.Clone(), nil
		}
	}
	return domain.Disorder{}, fmt.Errorf("disorder named %q: %w", name, domain.ErrNotFound)
}

// Lookup resolves key as an identifier first and as a name second.
func (p *Provider) Lookup(key string) (domain.Disorder, error) {
	if d, err := p.Get(key); err == nil {
		return d, nil
	}
	return p.FindByName(key)
}

// FindByGene returns the disorders with at least one gene whose name contains
// query, case-insensitively, in source order. An empty query matches nothing.
func (p *Provider) FindByGene(query string) []domain.Disorder {
	query = strings.ToLower(strings.TrimSpace(query))
	matches := make([]domain.Disorder, 0)
	if query == "" {
		return matches
	}

	for _, d := range p.records {
		for _, g := range d.Genes {
			if strings.Contains(strings.ToLower(g.Name), query) {
				matches = append(matches, d.Clone())
				break
			}
		}
	}
	return matches
}

// Subscribe delivers the loaded value to listener. The call is synchronous
// and happens once; there are no later notifications.
func (p *Provider) Subscribe(listener Listener) {
	if listener == nil {
		return
	}
	p.logger.WithField("records", len(p.records)).Debug("Notifying subscriber")
	listener(p.Records())
}

// Watch returns a channel that yields the loaded value once and is then
// closed. If ctx is already done the channel is closed without a value.
func (p *Provider) Watch(ctx context.Context) <-chan []domain.Disorder {
	ch := make(chan []domain.Disorder, 1)
	if ctx.Err() == nil {
		ch <- p.Records()
	}
	close(ch)
	return ch
}

func (p *Provider) geneCount() int {
	n := 0
	for _, d := range p.records {
		n += len(d.Genes)
	}
	return n
}
