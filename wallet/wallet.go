// Package wallet manages local keystore wallets. Account descriptions
// live as json files under ~/.jobverify/, one per address, and encrypted
// keys under ~/.jobverify/keystores/.
package wallet

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"syscall"

	gethkeystore "github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
	"golang.org/x/term"
)

type AccDesc struct {
	Address string
	Kind    string
	Keypath string
	Desc    string
}

func getHomeDir() string {
	usr, err := user.Current()
	if err != nil {
		log.Fatal(err)
	}
	return usr.HomeDir
}

func getPassword(prompt string) string {
	fmt.Print(prompt)
	bytePassword, _ := term.ReadPassword(int(syscall.Stdin))
	fmt.Printf("\n")
	return string(bytePassword)
}

type keystoreFile struct {
	Address string `json:"address"`
}

func StorePrivateKeyWithKeystore(privateKey string, passphrase string) (string, error) {
	priv, err := crypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
	if err != nil {
		return "", err
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	key := &gethkeystore.Key{
		Id:         id,
		Address:    crypto.PubkeyToAddress(priv.PublicKey),
		PrivateKey: priv,
	}

	keystoreJson, err := gethkeystore.EncryptKey(
		key,
		passphrase,
		262144, // n
		1,      // p
	)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(getHomeDir(), ".jobverify", "keystores")
	os.MkdirAll(dir, os.ModePerm)
	path := filepath.Join(dir, fmt.Sprintf("%s.json", key.Address.Hex()))
	return path, os.WriteFile(path, keystoreJson, 0644)
}

func VerifyKeystore(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	k := &keystoreFile{}
	err = json.Unmarshal(content, k)
	if err != nil {
		return "", err
	}
	return "0x" + k.Address, nil
}

func StoreAccountRecord(accDesc AccDesc) error {
	dir := filepath.Join(getHomeDir(), ".jobverify")
	os.MkdirAll(dir, os.ModePerm)
	path := filepath.Join(dir, fmt.Sprintf("%s.json", accDesc.Address))
	content, _ := json.Marshal(accDesc)
	return os.WriteFile(path, content, 0644)
}

// UnlockAccount opens the keystore behind a stored description, asking
// for the passphrase on the terminal.
func UnlockAccount(ad AccDesc) (*Account, error) {
	if ad.Kind != "keystore" {
		return nil, fmt.Errorf("unsupported wallet kind: %s", ad.Kind)
	}
	fmt.Printf("Using keystore: %s\n", ad.Keypath)
	pwd := getPassword("Enter passphrase: ")
	acc, err := NewAccountFromKeystore(ad.Keypath, pwd)
	if err != nil {
		fmt.Printf("Unlocking keystore '%s' failed: %s. Abort!\n", ad.Keypath, err)
		return nil, err
	}
	return acc, nil
}

func GetAccount(input string) (AccDesc, error) {
	source := NewFuzzySource()
	matches := fuzzy.FindFrom(strings.Replace(input, " ", "_", -1), source)
	if len(matches) == 0 {
		return AccDesc{}, fmt.Errorf("no account is found with '%s'", input)
	}
	match := matches[0]
	return source[match.Index], nil
}

// GetAccounts returns a map address -> account description.
// Each description is stored in a json file whose name is
// the address and content is the description.
// All files are kept in ~/.jobverify/
func GetAccounts() map[string]AccDesc {
	paths, err := filepath.Glob(filepath.Join(getHomeDir(), ".jobverify", "*.json"))
	if err != nil {
		fmt.Printf("Getting accounts failed: %s.\n", err)
		return map[string]AccDesc{}
	}
	result := map[string]AccDesc{}
	for _, p := range paths {
		desc := AccDesc{}
		content, err := os.ReadFile(p)
		if err != nil {
			fmt.Printf("Reading account description failed: %s. Ignore and continue.\n", err)
			continue
		}
		if err = json.Unmarshal(content, &desc); err != nil {
			fmt.Printf("Reading account %s description failed: %s. Ignore and continue.\n", p, err)
			continue
		}
		if desc.Address != "" {
			result[desc.Address] = desc
		}
	}
	return result
}
