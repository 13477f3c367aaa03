package cmd

import (
	"github.com/jrmunchkin/defi-cube-yield-farm/core"
	"github.com/jrmunchkin/defi-cube-yield-farm/pkg/id"
	"github.com/jrmunchkin/defi-cube-yield-farm/pkg/number"

	"github.com/fox-one/pkg/qrcode"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// command for paying free balance out to the user's wallet
var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "withdraw",
	Long:  "withdraw free vault balance back to your wallet. asset for asset_id, amount for asset amount",
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

		native, e := number.ToNative(amountNum)
		if e != nil {
			panic(e)
		}

		system := provideSystem()
		dapp := provideDapp()
		walletz := provideWalletService(dapp)

		payAsset, payAmount := carrierFlags(cmd, system)

		action := core.WithdrawAction{
			AssetID: assetID,
			Amount:  native,
		}

		memo, err := core.EncodeAction(core.ActionTypeWithdraw, &action)
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
	rootCmd.AddCommand(withdrawCmd)
	withdrawCmd.Flags().StringP("asset", "a", "", "asset id")
	withdrawCmd.Flags().StringP("amount", "q", "", "amount")
	withdrawCmd.Flags().String("pay-asset", "", "carrier asset id, defaults to the reward asset")
	withdrawCmd.Flags().String("pay-amount", "0.00000001", "carrier amount")
}
