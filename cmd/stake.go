package cmd

import (
	"github.com/jrmunchkin/defi-cube-yield-farm/core"
	"github.com/jrmunchkin/defi-cube-yield-farm/pkg/id"
	"github.com/jrmunchkin/defi-cube-yield-farm/pkg/number"

	"github.com/fox-one/pkg/qrcode"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// command for opening or topping up a position
var stakeCmd = &cobra.Command{
	Use:   "stake",
	Short: "stake",
	Long:  "pay an asset with a stake memo. the payment funds the vault and the memo moves it into a position in one pass",
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

		action := core.StakeAction{
			AssetID: assetID,
			Amount:  native,
		}

		memo, err := core.EncodeAction(core.ActionTypeStake, &action)
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
	rootCmd.AddCommand(stakeCmd)
	stakeCmd.Flags().StringP("asset", "a", "", "asset id")
	stakeCmd.Flags().StringP("amount", "q", "", "amount")
}
