package cmd

import (
	"time"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"
	ledgerservice "github.com/jrmunchkin/defi-cube-yield-farm/service/ledger"
	"github.com/jrmunchkin/defi-cube-yield-farm/service/minter"
	oracleservice "github.com/jrmunchkin/defi-cube-yield-farm/service/oracle"
	rewardservice "github.com/jrmunchkin/defi-cube-yield-farm/service/reward"
	walletservice "github.com/jrmunchkin/defi-cube-yield-farm/service/wallet"
	"github.com/jrmunchkin/defi-cube-yield-farm/store/asset"
	"github.com/jrmunchkin/defi-cube-yield-farm/store/event"
	"github.com/jrmunchkin/defi-cube-yield-farm/store/oracle"
	"github.com/jrmunchkin/defi-cube-yield-farm/store/position"
	"github.com/jrmunchkin/defi-cube-yield-farm/store/price"
	"github.com/jrmunchkin/defi-cube-yield-farm/store/reward"
	"github.com/jrmunchkin/defi-cube-yield-farm/store/snapshot"
	"github.com/jrmunchkin/defi-cube-yield-farm/store/staker"
	"github.com/jrmunchkin/defi-cube-yield-farm/store/transfer"
	"github.com/jrmunchkin/defi-cube-yield-farm/store/vault"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideDapp() *mixin.Client {
	c, err := mixin.NewFromKeystore(&cfg.Dapp.Keystore)
	if err != nil {
		panic(err)
	}

	return c
}

func provideSystem() *core.System {
	return &core.System{
		ClientID:       cfg.Dapp.ClientID,
		Admins:         cfg.App.Admins,
		Minters:        cfg.App.Minters,
		RewardAssetID:  cfg.App.RewardAssetID,
		Rate:           cfg.App.Rate,
		PriceThreshold: cfg.Oracle.PriceThreshold,
		Location:       cfg.App.Location,
		Version:        rootCmd.Version,
	}
}

// ---------------store-----------------------------------------

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func provideAssetStore(db *db.DB) core.AssetStore {
	return asset.Cache(asset.New(db), 5*time.Minute)
}

func providePositionStore(db *db.DB) core.PositionStore {
	return position.New(db)
}

func provideStakerStore(db *db.DB) core.StakerStore {
	return staker.New(db)
}

func provideRewardStore(db *db.DB) core.RewardStore {
	return reward.New(db)
}

func provideVaultStore(db *db.DB) core.AssetTransfer {
	return vault.New(db)
}

func providePriceStore(db *db.DB) core.PriceStore {
	return price.New(db)
}

func provideOracleSignerStore(db *db.DB) core.OracleSignerStore {
	return oracle.NewSignerStore(db)
}

func provideTransferStore(db *db.DB) core.TransferStore {
	return transfer.New(db)
}

func provideEventStore(db *db.DB) core.EventStore {
	return event.New(db)
}

func provideSnapshotStore(db *db.DB) core.SnapshotStore {
	return snapshot.New(db)
}

// ------------------service------------------------------------

func provideWalletService(client *mixin.Client) core.WalletService {
	return walletservice.New(client, cfg.Dapp.Pin)
}

func providePriceOracle(prices core.PriceStore) core.PriceOracle {
	return oracleservice.New(prices)
}

func providePriceFeed() core.PriceFeedService {
	return oracleservice.NewFeed(cfg.Oracle.EndPoint)
}

func provideMinter(system *core.System, transfers core.TransferStore) core.RewardMinter {
	return minter.New(system, transfers)
}

func provideLedgerService(
	database *db.DB,
	system *core.System,
	assets core.AssetStore,
	positions core.PositionStore,
	stakers core.StakerStore,
	rewards core.RewardStore,
	vaultStore core.AssetTransfer,
	priceOracle core.PriceOracle,
	events core.EventStore) core.LedgerService {
	return ledgerservice.New(database, system, assets, positions, stakers, rewards, vaultStore, priceOracle, events)
}

func provideRewardService(
	database *db.DB,
	system *core.System,
	assets core.AssetStore,
	positions core.PositionStore,
	stakers core.StakerStore,
	rewards core.RewardStore,
	priceOracle core.PriceOracle,
	rewardMinter core.RewardMinter,
	events core.EventStore) core.RewardService {
	return rewardservice.New(database, system, assets, positions, stakers, rewards, priceOracle, rewardMinter, events)
}
