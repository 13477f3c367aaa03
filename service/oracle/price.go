package oracle

import (
	"context"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"
)

type priceService struct {
	prices core.PriceStore
}

// New new price oracle backed by the attested price table
func New(prices core.PriceStore) core.PriceOracle {
	return &priceService{
		prices: prices,
	}
}

func (s *priceService) GetPrice(ctx context.Context, assetID string) (uint64, uint8, error) {
	price, ok, err := s.prices.Find(ctx, assetID)
	if err != nil {
		return 0, 0, err
	}
	if !ok || price.Price == 0 {
		return 0, 0, core.ErrPriceNotAvailable
	}

	return price.Price, price.Decimals, nil
}
