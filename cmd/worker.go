package cmd

import (
	"sync"

	"github.com/jrmunchkin/defi-cube-yield-farm/worker"
	"github.com/jrmunchkin/defi-cube-yield-farm/worker/cashier"
	"github.com/jrmunchkin/defi-cube-yield-farm/worker/notifier"
	oracleworker "github.com/jrmunchkin/defi-cube-yield-farm/worker/oracle"
	"github.com/jrmunchkin/defi-cube-yield-farm/worker/payee"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "farm job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		system := provideSystem()
		dapp := provideDapp()

		propertyStore := providePropertyStore(database)
		assetStore := provideAssetStore(database)
		positionStore := providePositionStore(database)
		stakerStore := provideStakerStore(database)
		rewardStore := provideRewardStore(database)
		vaultStore := provideVaultStore(database)
		priceStore := providePriceStore(database)
		signerStore := provideOracleSignerStore(database)
		transferStore := provideTransferStore(database)
		eventStore := provideEventStore(database)
		snapshotStore := provideSnapshotStore(database)

		walletService := provideWalletService(dapp)
		priceOracle := providePriceOracle(priceStore)
		feedService := providePriceFeed()
		minterService := provideMinter(system, transferStore)
		ledgerService := provideLedgerService(database, system, assetStore, positionStore, stakerStore, rewardStore, vaultStore, priceOracle, eventStore)
		rewardService := provideRewardService(database, system, assetStore, positionStore, stakerStore, rewardStore, priceOracle, minterService, eventStore)

		workers := []worker.Worker{
			payee.NewPayee(system, database, propertyStore, assetStore, snapshotStore, eventStore, transferStore, vaultStore, walletService, ledgerService, rewardService),
			cashier.New(database, transferStore, walletService, cashier.Config{
				Batch:    _flag.cashier.batch,
				Capacity: _flag.cashier.capacity,
			}),
			oracleworker.New(system, assetStore, priceStore, signerStore, feedService),
			notifier.New(system.Location, system, eventStore, walletService),
		}

		wg := sync.WaitGroup{}
		for _, w := range workers {
			wg.Add(1)

			go func(worker worker.Worker) {
				defer wg.Done()
				worker.Run(ctx)
			}(w)
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
