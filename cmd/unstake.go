package cmd

import (
	"github.com/jrmunchkin/defi-cube-yield-farm/core"
	"github.com/jrmunchkin/defi-cube-yield-farm/pkg/id"
	"github.com/jrmunchkin/defi-cube-yield-farm/pkg/number"

	"github.com/fox-one/pkg/qrcode"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// command for moving position balance back to the free book. the
// payment is only a memo carrier; its tiny amount is credited to the
// sender's vault like any other deposit.
var unstakeCmd = &cobra.Command{
	Use:   "unstake",
	Short: "unstake",
	Long:  "unstake a staked asset back into the vault. asset for asset_id, amount for asset amount",
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

		action := core.UnstakeAction{
			AssetID: assetID,
			Amount:  native,
		}

		memo, err := core.EncodeAction(core.ActionTypeUnstake, &action)
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

// carrierFlags reads the pay-asset and pay-amount flags shared by the
// memo-only commands.
func carrierFlags(cmd *cobra.Command, system *core.System) (string, decimal.Decimal) {
	payAsset, _ := cmd.Flags().GetString("pay-asset")
	if payAsset == "" {
		payAsset = system.RewardAssetID
	}

	payAmount, e := decimal.NewFromString(cmd.Flag("pay-amount").Value.String())
	if e != nil || !payAmount.IsPositive() {
		panic("invalid pay-amount")
	}

	return payAsset, payAmount
}

func init() {
	rootCmd.AddCommand(unstakeCmd)
	unstakeCmd.Flags().StringP("asset", "a", "", "asset id")
	unstakeCmd.Flags().StringP("amount", "q", "", "amount")
	unstakeCmd.Flags().String("pay-asset", "", "carrier asset id, defaults to the reward asset")
	unstakeCmd.Flags().String("pay-amount", "0.00000001", "carrier amount")
}
