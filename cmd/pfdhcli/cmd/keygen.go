package cmd

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a key pair",
	Long: `Generates a key pair for the configured family and parameters and
writes public.json and a password-sealed secret.json.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		pw, err := password()
		if err != nil {
			return err
		}
		p := paramsFromConfig()
		b, err := newBackend(p)
		if err != nil {
			return err
		}
		pub, sec, err := b.keygen(pw)
		if err != nil {
			return fmt.Errorf("keygen: %v", err)
		}
		st := store()
		if err := st.SavePublic(pub); err != nil {
			return err
		}
		if err := st.SaveSecret(sec); err != nil {
			return err
		}
		glog.V(1).Infof("wrote %s key pair n=%d q=%d to %s", p.Family, p.N, p.Q, st.Dir)
		fmt.Fprintln(cmd.OutOrStdout(), sec.Fingerprint)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(keygenCmd)
}
