package cmd

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tuneinsight/lattigo/v4/utils"

	"lattice-schemes/internal/monitor"
	"lattice-schemes/signature/pfdh"
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Run an in-memory keygen/sign/verify round",
	Long: `Generates a throwaway key pair for the configured parameters, signs
"Hello World!", checks the signature verifies and is rejected for
"Hello World!!", and checks that a domain sample evaluates into the range.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p := paramsFromConfig()
		mon := monitor.New(p.Family)
		b, err := newBackend(p, pfdh.WithMetrics(mon))
		if err != nil {
			return err
		}
		if err := selftest(b); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "selftest passed (%s n=%d q=%d s=%g)\n", p.Family, p.N, p.Q, p.Width)
		if addr := viper.GetString("metrics-addr"); addr != "" {
			return mon.Serve(addr)
		}
		return nil
	},
}

func selftest(b backend) error {
	const pw = "selftest"
	pub, sec, err := b.keygen(pw)
	if err != nil {
		return fmt.Errorf("keygen: %v", err)
	}
	sig, err := b.sign("Hello World!", pub, sec, pw)
	if err != nil {
		return fmt.Errorf("sign: %v", err)
	}
	glog.V(1).Infof("signature norm %.2f", sig.Norm)
	if ok, err := b.verify("Hello World!", pub, sig); err != nil || !ok {
		return fmt.Errorf("valid signature rejected (err=%v)", err)
	}
	if ok, err := b.verify("Hello World!!", pub, sig); err != nil || ok {
		return fmt.Errorf("signature accepted for a different message (err=%v)", err)
	}
	prng, err := utils.NewPRNG()
	if err != nil {
		return err
	}
	if err := b.domainCheck(prng); err != nil {
		return fmt.Errorf("domain check: %v", err)
	}
	return nil
}

func init() {
	selftestCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address after the run")
	bindLocal(selftestCmd.Flags(), "metrics-addr")
	RootCmd.AddCommand(selftestCmd)
}

func bindLocal(fs *pflag.FlagSet, name string) {
	if err := viper.BindPFlag(name, fs.Lookup(name)); err != nil {
		glog.Exitf("bind %s: %v", name, err)
	}
}
