package cmd

import (
	"github.com/jrmunchkin/defi-cube-yield-farm/core"
	"github.com/jrmunchkin/defi-cube-yield-farm/pkg/id"

	"github.com/fox-one/pkg/qrcode"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// command for funding the free balance book
var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "deposit",
	Long:  "pay an asset into the farm vault before staking. asset for asset_id, amount for asset amount",
	Run: func(cmd *cobra.Command, args []string) {
		assetID, e := cmd.Flags().GetString("asset")
		if e != nil || assetID == "" {
			panic(e)
		}

		amount, e := cmd.Flags().GetString("amount")
		if e != nil {
			panic(e)
		}
		amountNum, e := decimal.NewFromString(amount)
		if e != nil || !amountNum.IsPositive() {
			panic("invalid amount")
		}

		system := provideSystem()
		dapp := provideDapp()
		walletz := provideWalletService(dapp)

		memo, err := core.EncodeAction(core.ActionTypeDeposit, nil)
		if err != nil {
			panic(err)
		}

		url, err := walletz.PaySchemaURL(amountNum, assetID, system.ClientID, id.GenTraceID(), memo)
		if err != nil {
			panic(err)
		}

		cmd.Println(url)
		qrcode.Fprint(cmd.OutOrStdout(), url)
	},
}

func init() {
	rootCmd.AddCommand(depositCmd)
	depositCmd.Flags().StringP("asset", "a", "", "asset id")
	depositCmd.Flags().StringP("amount", "q", "", "amount")
}
