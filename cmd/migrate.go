package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy every encounter from the configured store into another",
	Long: `Copies all encounters from the configured store (--store) into the
store named by --to. Encounters already present in the target are
overwritten. Journals are shared by both stores and are not copied.

Example:
	skirmish encounter migrate --store file --to sqlite`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		to, _ := cmd.Flags().GetString("to")
		from := viper.GetString("store")
		if to == from {
			fmt.Printf("Error: source and target store are both %s\n", from)
			os.Exit(1)
		}

		src := mustOpenStore()
		defer src.Close()
		dst, err := openStore(to)
		if err != nil {
			fmt.Printf("Error opening target store: %v\n", err)
			os.Exit(1)
		}
		defer dst.Close()

		n, err := migrate(ctx, src, dst, progressbar.Default(-1, "Copying encounters"))
		if err != nil {
			fmt.Printf("\nError after %d encounters: %v\n", n, err)
			os.Exit(1)
		}
		fmt.Printf("\nCopied %d encounters from %s to %s.\n", n, from, to)
	},
}

func init() {
	encounterCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().String("to", storeSQLite, "target store: file or sqlite")
}

// migrate copies every encounter listed by src into dst and returns how many
// were copied.
func migrate(ctx context.Context, src, dst encounterStore, bar *progressbar.ProgressBar) (int, error) {
	summaries, err := src.List(ctx)
	if err != nil {
		return 0, err
	}
	bar.ChangeMax(len(summaries))

	for i, s := range summaries {
		enc, err := src.Load(ctx, s.ID)
		if err != nil {
			return i, fmt.Errorf("load %s: %w", s.ID, err)
		}
		if err := dst.Save(ctx, enc); err != nil {
			return i, fmt.Errorf("save %s: %w", s.ID, err)
		}
		bar.Add(1)
	}
	bar.Finish()
	return len(summaries), nil
}
