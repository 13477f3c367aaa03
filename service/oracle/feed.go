package oracle

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"
	"github.com/jrmunchkin/defi-cube-yield-farm/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
)

type feedService struct {
	endpoint string
}

// NewFeed new price feed service
func NewFeed(endpoint string) core.PriceFeedService {
	return &feedService{
		endpoint: endpoint,
	}
}

// PullPrices pulls the latest signed quotes from the feed. Each blob
// carries its own aggregate signature; the caller verifies before
// accepting.
func (s *feedService) PullPrices(ctx context.Context, ts time.Time) ([]*core.PriceData, error) {
	url := fmt.Sprintf("%s/api/v1/prices?ts=%d", s.endpoint, ts.UTC().Unix())
	logger.FromContext(ctx).Debugln("pull prices:", url)

	var body struct {
		Data []struct {
			Blob string `json:"blob"`
		} `json:"data"`
	}

	if _, err := resthttp.Get(ctx, url, &body); err != nil {
		return nil, err
	}

	prices := make([]*core.PriceData, 0, len(body.Data))
	for _, item := range body.Data {
		raw, err := base64.StdEncoding.DecodeString(item.Blob)
		if err != nil {
			return nil, err
		}

		var price core.PriceData
		if err := price.UnmarshalBinary(raw); err != nil {
			return nil, err
		}

		prices = append(prices, &price)
	}

	return prices, nil
}
