package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jobverify/jobverify/common"
	"github.com/jobverify/jobverify/wallet"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage your wallets",
	Long:  ``,
}

var walletImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a private key into an encrypted keystore",
	Long: `Asks for the hex private key and a passphrase, stores the encrypted
keystore under ~/.jobverify/keystores/ and records a wallet description
so other commands can find it by address or name.`,
	Run: func(cmd *cobra.Command, args []string) {
		appUI.Info("Paste the hex private key to import:")
		privateKey := appUI.Ask(func(input string) error {
			trimmed := strings.TrimPrefix(strings.TrimSpace(input), "0x")
			if len(trimmed) != 64 {
				return fmt.Errorf("a private key is 64 hex chars, got %d", len(trimmed))
			}
			return nil
		})
		appUI.Info("Choose a passphrase:")
		passphrase := appUI.Ask(func(input string) error {
			if len(input) < 6 {
				return fmt.Errorf("passphrase must be at least 6 chars")
			}
			return nil
		})
		appUI.Info("Describe this wallet (e.g. \"acme hiring\"):")
		desc := appUI.Ask(func(string) error { return nil })

		path, err := wallet.StorePrivateKeyWithKeystore(strings.TrimSpace(privateKey), passphrase)
		if err != nil {
			appUI.Critical("Storing the keystore failed: %s", err)
			return
		}
		address, err := wallet.VerifyKeystore(path)
		if err != nil {
			appUI.Critical("The stored keystore doesn't read back: %s", err)
			return
		}
		err = wallet.StoreAccountRecord(wallet.AccDesc{
			Address: address,
			Kind:    "keystore",
			Keypath: path,
			Desc:    desc,
		})
		if err != nil {
			appUI.Critical("Storing the wallet description failed: %s", err)
			return
		}
		appUI.Success("Imported wallet %s (%s).", address, desc)
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known wallets",
	Run: func(cmd *cobra.Command, args []string) {
		accounts := wallet.GetAccounts()
		if len(accounts) == 0 {
			appUI.Info("No wallets yet. Import one with 'jobverify wallet import'.")
			return
		}
		addresses := []string{}
		for addr := range accounts {
			addresses = append(addresses, addr)
		}
		sort.Strings(addresses)
		rows := [][]string{}
		for _, addr := range addresses {
			rows = append(rows, []string{common.ShortAddress(addr), accounts[addr].Desc, accounts[addr].Kind})
		}
		appUI.Table([]string{"Address", "Description", "Kind"}, rows)
	},
}

func init() {
	walletCmd.AddCommand(walletImportCmd)
	walletCmd.AddCommand(walletListCmd)
	rootCmd.AddCommand(walletCmd)
}
