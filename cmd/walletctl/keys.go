package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chainsafe/token-wallet/pkg/keys"
	"github.com/chainsafe/token-wallet/pkg/network"
)

const defaultMasterKeyEnv = "WALLET_MASTER_KEY"

func (c *cli) keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the custodial key master key",
	}
	cmd.AddCommand(c.generateMasterCmd(), c.verifyKeyCmd())
	return cmd
}

func (c *cli) generateMasterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate-master",
		Short: "Print a new base64 master key",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			key, err := keys.GenerateMasterKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, keys.MasterKeyToBase64(key))
			return nil
		},
	}
}

func (c *cli) verifyKeyCmd() *cobra.Command {
	var masterKeyEnv string

	cmd := &cobra.Command{
		Use:   "verify <address> <encrypted-key>",
		Short: "Check that an encrypted custodial key opens and matches its address",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			encoded := os.Getenv(masterKeyEnv)
			if encoded == "" {
				return fmt.Errorf("master key not set: env=%s", masterKeyEnv)
			}
			master, err := keys.MasterKeyFromBase64(encoded)
			if err != nil {
				return err
			}
			cipher, err := keys.NewMasterKeyCipher(master)
			if err != nil {
				return err
			}

			owner := network.NormalizeAddress(args[0])
			raw, err := cipher.Decrypt(owner, args[1])
			if err != nil {
				return fmt.Errorf("decrypt: %w", err)
			}
			key, err := keys.WalletKeyFromBytes(raw)
			if err != nil {
				return err
			}
			if network.NormalizeAddress(key.Address()) != owner {
				return fmt.Errorf("key belongs to %s, not %s", key.Address(), args[0])
			}
			fmt.Fprintf(c.out, "ok %s\n", key.Address())
			return nil
		},
	}
	cmd.Flags().StringVar(&masterKeyEnv, "master-key-env", defaultMasterKeyEnv, "environment variable holding the base64 master key")
	return cmd
}
