package oracle

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"
	"github.com/jrmunchkin/defi-cube-yield-farm/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/pandodao/blst"
)

// Worker pulls signed quotes from the price feed, checks each
// aggregate signature against the registered signer set and stores
// the quotes the allowed assets resolve to.
type Worker struct {
	worker.TickWorker
	system      *core.System
	assetStore  core.AssetStore
	priceStore  core.PriceStore
	signerStore core.OracleSignerStore
	feedz       core.PriceFeedService
}

// New new oracle worker
func New(system *core.System,
	assetStore core.AssetStore,
	priceStore core.PriceStore,
	signerStore core.OracleSignerStore,
	feedz core.PriceFeedService) *Worker {
	job := Worker{
		TickWorker: worker.TickWorker{
			Delay:    10 * time.Second,
			ErrDelay: 10 * time.Second,
		},
		system:      system,
		assetStore:  assetStore,
		priceStore:  priceStore,
		signerStore: signerStore,
		feedz:       feedz,
	}

	return &job
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "oracle")
	ctx = logger.WithContext(ctx, log)

	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx)

	assets, err := w.assetStore.ListAllowed(ctx)
	if err != nil {
		log.WithError(err).Errorln("assets.ListAllowed")
		return err
	}

	if len(assets) == 0 {
		return nil
	}

	signers, err := w.loadSigners(ctx)
	if err != nil {
		log.WithError(err).Errorln("load signers")
		return err
	}

	if len(signers) == 0 {
		log.Infoln("no feed signers registered")
		return nil
	}

	prices, err := w.feedz.PullPrices(ctx, time.Now())
	if err != nil {
		log.WithError(err).Errorln("feedz.PullPrices")
		return err
	}

	quotes := make(map[string]*core.PriceData, len(prices))
	for _, price := range prices {
		if !price.Verify(signers, w.system.PriceThreshold) {
			log.Infoln("dropped unverified quote for", price.AssetID)
			continue
		}
		quotes[price.AssetID] = price
	}

	for _, asset := range assets {
		quote, ok := quotes[asset.FeedID]
		if !ok {
			continue
		}

		price := &core.Price{
			AssetID:   asset.AssetID,
			Price:     quote.Price,
			Decimals:  quote.Decimals,
			Timestamp: quote.Timestamp,
		}
		if err := w.priceStore.Save(ctx, price); err != nil {
			log.WithError(err).Errorln("prices.Save", asset.Symbol)
			return err
		}
	}

	return nil
}

func (w *Worker) loadSigners(ctx context.Context) ([]*core.Signer, error) {
	rows, err := w.signerStore.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	signers := make([]*core.Signer, 0, len(rows))
	for idx, row := range rows {
		raw, err := base64.StdEncoding.DecodeString(row.PublicKey)
		if err != nil {
			return nil, err
		}

		key := blst.PublicKey{}
		if err := key.FromBytes(raw); err != nil {
			return nil, err
		}

		signers = append(signers, &core.Signer{
			Index:     uint64(idx) + 1,
			VerifyKey: &key,
		})
	}

	return signers, nil
}
