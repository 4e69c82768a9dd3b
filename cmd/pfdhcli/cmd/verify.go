package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errInvalid = errors.New("signature is invalid")

var verifyCmd = &cobra.Command{
	Use:   "verify <message>",
	Short: "Verify signature.json against a message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := store()
		pub, err := st.LoadPublic()
		if err != nil {
			return fmt.Errorf("load public key: %v", err)
		}
		sig, err := st.LoadSignature()
		if err != nil {
			return fmt.Errorf("load signature: %v", err)
		}
		b, err := newBackend(pub.Params)
		if err != nil {
			return err
		}
		ok, err := b.verify(args[0], pub, sig)
		if err != nil {
			return err
		}
		if !ok {
			return errInvalid
		}
		fmt.Fprintln(cmd.OutOrStdout(), "valid")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(verifyCmd)
}
