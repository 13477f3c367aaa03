package cmd

import (
	"encoding/base64"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"

	"github.com/pandodao/blst"
	"github.com/spf13/cobra"
)

var addSignerCmd = &cobra.Command{
	Use:     "add-signer",
	Aliases: []string{"as"},
	Short:   "register an oracle price signer",
	Long: `flags->
	label: signer label
	key: base64 blst public key of signer`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		label, _ := cmd.Flags().GetString("label")
		publicKey, _ := cmd.Flags().GetString("key")

		if label == "" || publicKey == "" {
			panic("no label or public key")
		}

		bts, err := base64.StdEncoding.DecodeString(publicKey)
		if err != nil {
			panic(err)
		}

		pub := blst.PublicKey{}
		if err := pub.FromBytes(bts); err != nil {
			panic(err)
		}

		database := provideDatabase()
		defer database.Close()

		signers := provideOracleSignerStore(database)
		if err := signers.Save(ctx, &core.OracleSigner{
			Label:     label,
			PublicKey: publicKey,
		}); err != nil {
			panic(err)
		}

		cmd.Println("signer saved:", label)
	},
}

var removeSignerCmd = &cobra.Command{
	Use:     "rm-signer",
	Aliases: []string{"rs"},
	Short:   "remove an oracle price signer",
	Long: `flags->
	label: signer label`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		label, _ := cmd.Flags().GetString("label")
		if label == "" {
			panic("no label")
		}

		database := provideDatabase()
		defer database.Close()

		signers := provideOracleSignerStore(database)
		if err := signers.Delete(ctx, label); err != nil {
			panic(err)
		}

		cmd.Println("signer removed:", label)
	},
}

var listSignersCmd = &cobra.Command{
	Use:     "signers",
	Aliases: []string{"ls"},
	Short:   "list registered oracle price signers",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		signers := provideOracleSignerStore(database)
		items, err := signers.FindAll(ctx)
		if err != nil {
			panic(err)
		}

		for idx, signer := range items {
			cmd.Printf("%d\t%s\t%s\n", idx+1, signer.Label, signer.PublicKey)
		}
	},
}

func init() {
	rootCmd.AddCommand(addSignerCmd)
	rootCmd.AddCommand(removeSignerCmd)
	rootCmd.AddCommand(listSignersCmd)

	addSignerCmd.Flags().String("label", "", "signer label")
	addSignerCmd.Flags().String("key", "", "base64 blst public key of signer")

	removeSignerCmd.Flags().String("label", "", "signer label")
}
