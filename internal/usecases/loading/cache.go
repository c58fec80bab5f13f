package loading

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vfg2006/sales-prediction-dashboard/internal/domain"
	"github.com/vfg2006/sales-prediction-dashboard/pkg/log"
	"github.com/vfg2006/sales-prediction-dashboard/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

type cacheKey struct {
	location     string
	isPrediction bool
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%s|%t", k.location, k.isPrediction)
}

// CachedLoader memoriza datasets por (local, isPrediction). Os arquivos são
// tratados como imutáveis durante a execução, então não há invalidação.
// Os datasets devolvidos são compartilhados e não devem ser alterados.
type CachedLoader struct {
	loader  DatasetLoader
	metrics *metrics.Registry

	mu      sync.RWMutex
	entries map[cacheKey]*domain.Dataset
	group   singleflight.Group
}

func NewCachedLoader(loader DatasetLoader, reg *metrics.Registry) *CachedLoader {
	return &CachedLoader{
		loader:  loader,
		metrics: reg,
		entries: make(map[cacheKey]*domain.Dataset),
	}
}

func (c *CachedLoader) Load(ctx context.Context, location string, isPrediction bool) (*domain.Dataset, error) {
	key := cacheKey{location: location, isPrediction: isPrediction}

	c.mu.RLock()
	dataset, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		if c.metrics != nil {
			c.metrics.DatasetCacheHits.Inc()
		}
		return dataset, nil
	}

	// Requisições simultâneas para a mesma chave compartilham uma única leitura
	value, err, shared := c.group.Do(key.String(), func() (interface{}, error) {
		c.mu.RLock()
		cached, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		if c.metrics != nil {
			c.metrics.DatasetCacheMisses.Inc()
		}

		loaded, err := c.loader.Load(ctx, location, isPrediction)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = loaded
		c.mu.Unlock()

		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		log.ForContext(ctx).WithField("path_or_table", location).Debug("loading: leitura compartilhada entre requisições")
	}

	return value.(*domain.Dataset), nil
}

// Cached retorna os datasets já carregados, ordenados por local
func (c *CachedLoader) Cached() []*domain.Dataset {
	c.mu.RLock()
	defer c.mu.RUnlock()

	datasets := make([]*domain.Dataset, 0, len(c.entries))
	for _, dataset := range c.entries {
		datasets = append(datasets, dataset)
	}

	sort.Slice(datasets, func(i, j int) bool {
		if datasets[i].Path == datasets[j].Path {
			return datasets[i].Origin < datasets[j].Origin
		}
		return datasets[i].Path < datasets[j].Path
	})

	return datasets
}
