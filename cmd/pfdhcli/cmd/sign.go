package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var signCmd = &cobra.Command{
	Use:   "sign <message>",
	Short: "Sign a message",
	Long: `Signs the message with the stored key pair and writes signature.json.
Scheme parameters are taken from the public key.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := password()
		if err != nil {
			return err
		}
		st := store()
		pub, err := st.LoadPublic()
		if err != nil {
			return fmt.Errorf("load public key: %v", err)
		}
		sec, err := st.LoadSecret()
		if err != nil {
			return fmt.Errorf("load secret key: %v", err)
		}
		b, err := newBackend(pub.Params)
		if err != nil {
			return err
		}
		sig, err := b.sign(args[0], pub, sec, pw)
		if err != nil {
			return fmt.Errorf("sign: %v", err)
		}
		if err := st.SaveSignature(sig); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "norm=%.2f salt=%x\n", sig.Norm, sig.Salt)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(signCmd)
}
