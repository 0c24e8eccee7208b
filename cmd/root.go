/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "skirmish",
	Short: "Deterministic tabletop combat resolution",
	Long: `skirmish tracks combat encounters for d20 and d6-pool games.
Every attack, save, test and turn change is recorded in the encounter log
and can be rewound. Encounters with a seed replay the same dice.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(viper.GetString("log_level"))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.skirmish.yaml)")
	rootCmd.PersistentFlags().String("store", "", "encounter store: file or sqlite")
	rootCmd.PersistentFlags().String("encounters_dir", "", "directory holding encounter files and journals")
	rootCmd.PersistentFlags().StringSlice("data_dirs", nil, "directories searched for combatant templates and rosters")
	rootCmd.PersistentFlags().String("log_level", "", "debug, info, warn or error")

	viper.BindPFlag("store", rootCmd.PersistentFlags().Lookup("store"))
	viper.BindPFlag("encounters_dir", rootCmd.PersistentFlags().Lookup("encounters_dir"))
	viper.BindPFlag("data_dirs", rootCmd.PersistentFlags().Lookup("data_dirs"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log_level"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("store", storeFile)
	viper.SetDefault("encounters_dir", "./encounters")
	viper.SetDefault("sqlite_path", "./encounters/skirmish.db")
	viper.SetDefault("data_dirs", []string{"./data"})
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("srd_url", "")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".skirmish")
	}

	viper.SetEnvPrefix("skirmish")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setupLogging installs the default slog handler. Logs go to stderr so they
// never mix with command output.
func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", level, err)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
	return nil
}
