package cmd

import (
	"github.com/jrmunchkin/defi-cube-yield-farm/core"
	"github.com/jrmunchkin/defi-cube-yield-farm/pkg/id"

	"github.com/fox-one/pkg/qrcode"
	"github.com/spf13/cobra"
)

// command for realizing pending rewards
var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "claim",
	Long:  "claim all pending CUBE rewards across staked assets",
	Run: func(cmd *cobra.Command, args []string) {
		system := provideSystem()
		dapp := provideDapp()
		walletz := provideWalletService(dapp)

		payAsset, payAmount := carrierFlags(cmd, system)

		memo, err := core.EncodeAction(core.ActionTypeClaim, nil)
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
	rootCmd.AddCommand(claimCmd)
	claimCmd.Flags().String("pay-asset", "", "carrier asset id, defaults to the reward asset")
	claimCmd.Flags().String("pay-amount", "0.00000001", "carrier amount")
}
