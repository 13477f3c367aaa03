package asset

import (
	"context"
	"fmt"
	"time"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/store/db"
	"golang.org/x/sync/singleflight"
)

// Cache wraps store with a read cache. The allow list changes
// rarely, so Find and ListAllowed results are held for exp.
func Cache(store core.AssetStore, exp time.Duration) core.AssetStore {
	return &cacheAssetStore{
		AssetStore: store,
		exp:        exp,
		cache:      gcache.New(2048).LRU().Build(),
		sf:         &singleflight.Group{},
	}
}

type cacheAssetStore struct {
	core.AssetStore
	exp   time.Duration
	cache gcache.Cache
	sf    *singleflight.Group
}

const listKey = "assets:allowed"

func (s *cacheAssetStore) Save(ctx context.Context, tx *db.DB, asset *core.Asset) error {
	if err := s.AssetStore.Save(ctx, tx, asset); err != nil {
		return err
	}
	s.cache.Remove(listKey)
	s.cache.Remove(s.assetKey(asset.AssetID))
	return nil
}

func (s *cacheAssetStore) Find(ctx context.Context, assetID string) (*core.Asset, bool, error) {
	key := s.assetKey(assetID)
	if v, err := s.cache.Get(key); err == nil {
		if asset, ok := v.(*core.Asset); ok {
			return asset, true, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		asset, ok, err := s.AssetStore.Find(ctx, assetID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		s.cache.SetWithExpire(key, asset, s.exp)
		return asset, nil
	})
	if err != nil {
		return nil, false, err
	}
	if v == nil {
		return nil, false, nil
	}

	return v.(*core.Asset), true, nil
}

func (s *cacheAssetStore) ListAllowed(ctx context.Context) ([]*core.Asset, error) {
	if v, err := s.cache.Get(listKey); err == nil {
		if assets, ok := v.([]*core.Asset); ok {
			return assets, nil
		}
	}

	v, err, _ := s.sf.Do(listKey, func() (interface{}, error) {
		assets, err := s.AssetStore.ListAllowed(ctx)
		if err != nil {
			return nil, err
		}
		s.cache.SetWithExpire(listKey, assets, s.exp)
		return assets, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]*core.Asset), nil
}

func (s *cacheAssetStore) assetKey(assetID string) string {
	return fmt.Sprintf("assets:id:%s", assetID)
}
