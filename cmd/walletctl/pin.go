package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainsafe/token-wallet/pkg/auth"
)

func (c *cli) pinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin",
		Short: "PIN hash utilities",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "hash",
		Short: "Read a PIN and print its bcrypt hash",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			pin, err := c.readSecret("PIN: ")
			if err != nil {
				return err
			}
			hash, err := auth.HashPIN(pin)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, hash)
			return nil
		},
	})
	return cmd
}
