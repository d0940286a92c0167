package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	var cfgFile string
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:          "citymatch",
		Short:        "European city matching and Airbnb listing statistics API",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is configs/citymatch.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "data", "directory holding <city>_<weekdays|weekends>.csv files")
	rootCmd.PersistentFlags().String("log-level", "info", "debug, info, warn or error")
	_ = v.BindPFlag("data.dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	app := &app{v: v, cfgFile: &cfgFile}
	rootCmd.AddCommand(serveCmd(app))
	rootCmd.AddCommand(aggregateCmd(app))
	rootCmd.AddCommand(matchCmd(app))
	rootCmd.AddCommand(buildStatsCmd(app))
	rootCmd.AddCommand(citiesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
