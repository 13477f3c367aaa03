package cmd

import (
	"github.com/jrmunchkin/defi-cube-yield-farm/core"
	"github.com/jrmunchkin/defi-cube-yield-farm/pkg/id"

	"github.com/fox-one/pkg/qrcode"
	"github.com/spf13/cobra"
)

// admin commands. the payee only honors these memos when the payer is
// on the admin list.
var addAssetCmd = &cobra.Command{
	Use:     "add-asset",
	Aliases: []string{"aa"},
	Short:   "allow-list an asset for staking",
	Long: `flags->
	asset: asset id
	symbol: display symbol
	feed: price feed id on the oracle endpoint`,
	Run: func(cmd *cobra.Command, args []string) {
		assetID, _ := cmd.Flags().GetString("asset")
		symbol, _ := cmd.Flags().GetString("symbol")
		feedID, _ := cmd.Flags().GetString("feed")

		if assetID == "" || symbol == "" || feedID == "" {
			panic("no asset, symbol or feed")
		}

		system := provideSystem()
		dapp := provideDapp()
		walletz := provideWalletService(dapp)

		payAsset, payAmount := carrierFlags(cmd, system)

		action := core.AssetAddAction{
			AssetID: assetID,
			Symbol:  symbol,
			FeedID:  feedID,
		}

		memo, err := core.EncodeAction(core.ActionTypeAssetAdd, &action)
		if err != nil {
			panic(err)
		}

		url, err := walletz.PaySchemaURL(payAmount, payAsset, system.ClientID, id.GenTraceID(), memo)
		if err != nil {
			panic(err)
		}

		cmd.Println(url)
		qrcode.Fprint(cmd.OutOrStdout(), url)
	},
}

var distributeCmd = &cobra.Command{
	Use:     "distribute",
	Aliases: []string{"dist"},
	Short:   "claim pending rewards on behalf of every staker",
	Run: func(cmd *cobra.Command, args []string) {
		system := provideSystem()
		dapp := provideDapp()
		walletz := provideWalletService(dapp)

		payAsset, payAmount := carrierFlags(cmd, system)

		memo, err := core.EncodeAction(core.ActionTypeDistribute, nil)
		if err != nil {
			panic(err)
		}

		url, err := walletz.PaySchemaURL(payAmount, payAsset, system.ClientID, id.GenTraceID(), memo)
		if err != nil {
			panic(err)
		}

		cmd.Println(url)
		qrcode.Fprint(cmd.OutOrStdout(), url)
	},
}

func init() {
	rootCmd.AddCommand(addAssetCmd)
	rootCmd.AddCommand(distributeCmd)

	addAssetCmd.Flags().StringP("asset", "a", "", "asset id")
	addAssetCmd.Flags().StringP("symbol", "s", "", "display symbol")
	addAssetCmd.Flags().StringP("feed", "f", "", "price feed id")
	addAssetCmd.Flags().String("pay-asset", "", "carrier asset id, defaults to the reward asset")
	addAssetCmd.Flags().String("pay-amount", "0.00000001", "carrier amount")

	distributeCmd.Flags().String("pay-asset", "", "carrier asset id, defaults to the reward asset")
	distributeCmd.Flags().String("pay-amount", "0.00000001", "carrier amount")
}
