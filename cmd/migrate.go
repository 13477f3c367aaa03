package cmd

import (
	"context"

	"github.com/jrmunchkin/defi-cube-yield-farm/core"
	"github.com/jrmunchkin/defi-cube-yield-farm/pkg/sysversion"

	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cobra"
)

// command for migrating database
var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Aliases: []string{"setdb"},
	Short:   "migrate database tables",
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			cmd.PrintErrln("migrate database error:", err)
			return
		}

		property := providePropertyStore(database)
		if err := sysversion.SaveSysVersion(context.Background(), property, core.SysVersion); err != nil {
			cmd.PrintErrln("save sys version error:", err)
			return
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
