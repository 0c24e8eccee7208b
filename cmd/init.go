package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/suderio/skirmish/internal/srd"
)

var initCmd = &cobra.Command{
	Use:   "init [monster...]",
	Short: "Import SRD monsters as combatant templates",
	Long: `Fetches monster stat blocks from the 5e SRD API and stores them as
combatants/<index>.yaml templates for offline use. Without arguments every
monster is imported. Existing templates are kept unless --force is given.

Examples:
	skirmish init goblin orc ogre
	skirmish init --force`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		force, _ := cmd.Flags().GetBool("force")
		dataDir, _ := cmd.Flags().GetString("data_dir_local")
		if dataDir == "" {
			dirs := viper.GetStringSlice("data_dirs")
			if len(dirs) == 0 {
				rootDir, _ := os.Getwd()
				dirs = []string{filepath.Join(rootDir, "data")}
			}
			dataDir = dirs[0]
		}

		client := srd.NewClient(viper.GetString("srd_url"), dataDir, force)

		var targets []srd.APIReference
		if len(args) > 0 {
			for _, a := range args {
				targets = append(targets, srd.APIReference{Index: a})
			}
		} else {
			list, err := client.FetchList(ctx)
			if err != nil {
				fmt.Printf("Error fetching monster list: %v\n", err)
				os.Exit(1)
			}
			targets = list.Results
		}

		fmt.Printf("Importing %d monsters to: %s\n", len(targets), dataDir)
		bar := progressbar.Default(int64(len(targets)), "Importing monsters")

		var imported, skipped, failed int
		for _, ref := range targets {
			err := client.Import(ctx, ref)
			switch {
			case err == nil:
				imported++
				// Throttle to respect the API
				time.Sleep(100 * time.Millisecond)
			case errors.Is(err, srd.ErrSkipped):
				skipped++
			default:
				failed++
				fmt.Printf("\nFailed to import %s: %v\n", ref.Index, err)
			}
			bar.Add(1)
		}

		fmt.Printf("\nImported %d, skipped %d, failed %d.\n", imported, skipped, failed)
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("force", false, "Force redownload of existing templates")
	initCmd.Flags().String("data_dir_local", "", "Data directory to write templates to (default: first of data_dirs)")
}
