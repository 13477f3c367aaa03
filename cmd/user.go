package cmd

import (
	"time"

	"github.com/jrmunchkin/defi-cube-yield-farm/pkg/number"

	"github.com/spf13/cobra"
)

// command for inspecting a user's book
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "print a user's positions, vault balances and pending reward",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		userID, _ := cmd.Flags().GetString("user")
		if userID == "" {
			panic("no user")
		}

		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		assetStore := provideAssetStore(database)
		positionStore := providePositionStore(database)
		stakerStore := provideStakerStore(database)
		rewardStore := provideRewardStore(database)
		vaultStore := provideVaultStore(database)
		priceStore := providePriceStore(database)
		eventStore := provideEventStore(database)
		transferStore := provideTransferStore(database)

		priceOracle := providePriceOracle(priceStore)
		minterService := provideMinter(system, transferStore)
		rewardService := provideRewardService(database, system, assetStore, positionStore, stakerStore, rewardStore, priceOracle, minterService, eventStore)

		positions, err := positionStore.ListByUser(ctx, userID)
		if err != nil {
			panic(err)
		}

		for _, position := range positions {
			balance, err := vaultStore.BalanceOf(ctx, userID, position.AssetID)
			if err != nil {
				panic(err)
			}

			cmd.Printf("%s\tstaked %s\tfree %s\tsince %s\n",
				position.AssetID,
				number.FromNative(position.Amount),
				number.FromNative(balance),
				time.Unix(position.AccrualStart, 0).UTC().Format(time.RFC3339))
		}

		pending, err := rewardService.PendingTotal(ctx, userID, time.Now())
		if err != nil {
			panic(err)
		}

		cmd.Printf("pending reward: %s CUBE\n", number.FromNative(pending))
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.Flags().StringP("user", "u", "", "user id")
}
