package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lattice-schemes/keys"
)

var cfgFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "pfdhcli",
	Short: "Probabilistic full-domain-hash lattice signatures",
	Long: `pfdhcli generates GPV and ring-GPV key pairs, signs messages with the
PFDH construction and verifies signatures. Keys and signatures are stored as
JSON under --dir; the trapdoor is sealed under --password.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pfdhcli.yaml)")

	RootCmd.PersistentFlags().String("family", keys.FamilyGPV, "PSF family: gpv or ring")
	RootCmd.PersistentFlags().Int("n", 4, "lattice dimension (gpv) or ring degree (ring)")
	RootCmd.PersistentFlags().Int64("q", 113, "modulus")
	RootCmd.PersistentFlags().Float64("width", 17, "Gaussian parameter s")
	RootCmd.PersistentFlags().Int("salt-bits", 128, "salt length in bits")
	RootCmd.PersistentFlags().String("dir", keys.DefaultDir, "directory holding public.json, secret.json and signature.json")
	RootCmd.PersistentFlags().String("password", "", "password sealing the secret key (or PFDH_PASSWORD)")
	RootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		glog.Exitf("%v", err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("pfdh")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			glog.Exitf("Failed reading config file: %v: %v", viper.ConfigFileUsed(), err)
		}
	} else {
		viper.SetConfigName(".pfdhcli")
		viper.AddConfigPath("$HOME")
		if err := viper.ReadInConfig(); err == nil {
			glog.Infof("Using config file: %v", viper.ConfigFileUsed())
		}
	}
}

func paramsFromConfig() keys.Params {
	return keys.Params{
		Family:   viper.GetString("family"),
		N:        viper.GetInt("n"),
		Q:        viper.GetInt64("q"),
		Width:    viper.GetFloat64("width"),
		SaltBits: viper.GetInt("salt-bits"),
	}
}

func store() keys.Store {
	return keys.Store{Dir: viper.GetString("dir")}
}

func password() (string, error) {
	pw := viper.GetString("password")
	if pw == "" {
		return "", fmt.Errorf("no password: set --password or PFDH_PASSWORD")
	}
	return pw, nil
}
