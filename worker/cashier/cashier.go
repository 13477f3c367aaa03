package cashier

import (
	"context"
	"errors"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"
	"github.com/jrmunchkin/defi-cube-yield-farm/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Cashier flushes queued transfers out through the custody wallet.
// Transfers are idempotent on the wallet side by trace id, so a crash
// between submit and delete only costs a re-submit.
type Cashier struct {
	worker.TickWorker
	txer      core.Txer
	transfers core.TransferStore
	walletz   core.WalletService
	cfg       Config
}

type Config struct {
	Batch    int   `json:"batch" valid:"required"`
	Capacity int64 `json:"capacity" valid:"required"`
}

// New new cashier
func New(
	txer core.Txer,
	transfers core.TransferStore,
	walletz core.WalletService,
	cfg Config,
) *Cashier {
	cashier := Cashier{
		txer:      txer,
		transfers: transfers,
		walletz:   walletz,
		cfg:       cfg,
	}

	return &cashier
}

// Run run worker
func (w *Cashier) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "cashier")
	ctx = logger.WithContext(ctx, log)

	f := w.sync
	if w.cfg.Capacity > 1 {
		f = w.parallel(w.cfg.Capacity)
	}

	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx, f)
	})
}

func (w *Cashier) onWork(ctx context.Context, f func(context.Context, []*core.Transfer) error) error {
	log := logger.FromContext(ctx)

	transfers, err := w.transfers.Top(ctx, w.cfg.Batch)
	if err != nil {
		log.WithError(err).Errorln("transfers.Top")
		return err
	}

	if len(transfers) == 0 {
		return errors.New("EOF")
	}

	return f(ctx, transfers)
}

func (w *Cashier) sync(ctx context.Context, transfers []*core.Transfer) error {
	for _, transfer := range transfers {
		if err := w.handleTransfer(ctx, transfer); err != nil {
			return err
		}
	}

	return nil
}

func (w *Cashier) parallel(capacity int64) func(ctx context.Context, transfers []*core.Transfer) error {
	sem := semaphore.NewWeighted(capacity)

	return func(ctx context.Context, transfers []*core.Transfer) error {
		g := errgroup.Group{}

		for idx := range transfers {
			transfer := transfers[idx]

			if err := sem.Acquire(ctx, 1); err != nil {
				return g.Wait()
			}

			g.Go(func() error {
				defer sem.Release(1)
				return w.handleTransfer(ctx, transfer)
			})
		}

		return g.Wait()
	}
}

func (w *Cashier) handleTransfer(ctx context.Context, transfer *core.Transfer) error {
	log := logger.FromContext(ctx).WithField("trace", transfer.TraceID)

	if err := w.walletz.HandleTransfer(ctx, transfer); err != nil {
		log.WithError(err).Errorln("walletz.HandleTransfer")
		return err
	}

	return w.txer.Tx(func(tx *db.DB) error {
		return w.transfers.Delete(ctx, tx, transfer.ID)
	})
}
