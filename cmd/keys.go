package cmd

import (
	"crypto/ed25519"
	"encoding/base64"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/pandodao/blst"
	"github.com/spf13/cobra"
)

// provision command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "generate a key pair: ed25519 for the bot keystore, blst for a price signer",
	Run: func(cmd *cobra.Command, args []string) {
		cipher, err := cmd.Flags().GetString("cipher")
		if err != nil {
			panic(err)
		}

		switch cipher {
		case "blst":
			private := blst.GenerateKey()
			public := private.PublicKey()

			cmd.Println("blst private key:", private.String())
			// base64 here matches what add-signer expects in --key
			cmd.Println("blst public key:", base64.StdEncoding.EncodeToString(public.Bytes()))
		default:
			private := mixin.GenerateEd25519Key()
			public := private.Public().(ed25519.PublicKey)

			cmd.Println("ed25519 private key:", base64.StdEncoding.EncodeToString(private))
			cmd.Println("ed25519 public key:", base64.StdEncoding.EncodeToString(public))
		}
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)

	keysCmd.Flags().String("cipher", "ed25519", "ed25519 or blst")
}
