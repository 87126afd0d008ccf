package region

import (
	"sync"

	"go.uber.org/zap"
)

var (
	hkOnce    sync.Once
	hkCatalog *Catalog
)

// HongKong returns the built-in catalog of 18 districts and their TPUs.
// It panics if the embedded tables violate catalog invariants.
func HongKong() *Catalog {
	hkOnce.Do(func() {
		parents := make([]Region, len(parentTable))
		for i, p := range parentTable {
			parents[i] = Region{ID: p.id, Name: p.name}
		}

		subs := make([]Region, 0, len(tpuTable))
		for _, t := range tpuTable {
			poly, err := ParsePath(t.path)
			if err != nil {
				zap.L().Panic("region: invalid built-in path", zap.String("id", t.id), zap.Error(err))
			}
			subs = append(subs, Region{
				ID:       t.id,
				ParentID: t.parent,
				Name:     t.name,
				Path:     t.path,
				Boundary: poly,
			})
		}

		c, err := NewCatalog(parents, subs)
		if err != nil {
			zap.L().Panic("region: invalid built-in catalog", zap.Error(err))
		}
		hkCatalog = c
	})
	return hkCatalog
}
