// Package config resolves where the JobVerify contracts live and which
// services the toolchain talks to. Address precedence is explicit:
// env override > deployment file value > error. Nothing here is a
// process-wide global; callers construct a Config and pass it down.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/jobverify/jobverify/common"
	"github.com/jobverify/jobverify/networks"
)

// ContractName identifies one of the deployed JobVerify contracts.
type ContractName string

const (
	JobPosting          ContractName = "JobPosting"
	UserVerification    ContractName = "UserVerification"
	CompanyVerification ContractName = "CompanyVerification"
	CredentialRegistry  ContractName = "CredentialRegistry"
	DisputeResolution   ContractName = "DisputeResolution"
)

// AllContracts lists every contract a deployment file is expected to carry.
var AllContracts = []ContractName{
	JobPosting,
	UserVerification,
	CompanyVerification,
	CredentialRegistry,
	DisputeResolution,
}

const (
	envPrefix              = "JOBVERIFY"
	defaultFraudServiceURL = "http://localhost:5000"
)

// Config carries the resolved deployment for one network.
type Config struct {
	Network   networks.Network
	addresses map[ContractName]string

	// FraudServiceURL points at the external fraud-detection service.
	FraudServiceURL string

	// WalletNode is the rpc endpoint the wallet signs against. Empty means
	// no wallet node was configured; writes then go through the canonical
	// read nodes.
	WalletNode string
}

// envKey returns the override env var for a contract address, e.g.
// JOBVERIFY_JOB_POSTING_ADDRESS for JobPosting.
func envKey(name ContractName) string {
	var b strings.Builder
	for i, r := range string(name) {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String()) + "_ADDRESS"
}

// deploymentFile mirrors the artifact written by the contract deploy
// scripts: {"network": "...", "contracts": {"JobPosting": "0x...", ...}}.
type deploymentFile struct {
	Network   string            `mapstructure:"network"`
	Contracts map[string]string `mapstructure:"contracts"`
}

// Load builds a Config for network, reading the deployment artifact from
// dir when it exists. A missing file is not fatal on its own: env
// overrides can still supply every address.
func Load(network networks.Network, dir string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	cfg := &Config{
		Network:         network,
		addresses:       map[ContractName]string{},
		FraudServiceURL: defaultFraudServiceURL,
		WalletNode:      v.GetString("WALLET_NODE"),
	}

	if url := v.GetString("FRAUD_SERVICE_URL"); url != "" {
		cfg.FraudServiceURL = url
	}

	var deployed deploymentFile
	fv := viper.New()
	fv.SetConfigFile(dir + "/" + network.GetDeploymentFile())
	fv.SetConfigType("json")
	if err := fv.ReadInConfig(); err == nil {
		if err := fv.Unmarshal(&deployed); err != nil {
			return nil, fmt.Errorf("deployment file is not in the expected shape: %w", err)
		}
	}

	for _, name := range AllContracts {
		// explicit override wins over the deployment file
		if addr := v.GetString(envKey(name)); addr != "" {
			cfg.addresses[name] = addr
			continue
		}
		if addr := deployed.Contracts[string(name)]; addr != "" {
			cfg.addresses[name] = addr
		}
	}

	return cfg, nil
}

// NewStatic builds a Config directly from an address map, bypassing files
// and env. Used by tests and embedders.
func NewStatic(network networks.Network, addresses map[ContractName]string) *Config {
	addrs := map[ContractName]string{}
	for k, v := range addresses {
		addrs[k] = v
	}
	return &Config{
		Network:         network,
		addresses:       addrs,
		FraudServiceURL: defaultFraudServiceURL,
	}
}

// Address returns the deployed address of name, or a ConfigError when the
// deployment doesn't carry it.
func (c *Config) Address(name ContractName) (string, error) {
	addr, found := c.addresses[name]
	if !found || addr == "" || addr == common.ZeroAddress {
		return "", &common.ConfigError{
			Key: string(name),
			Reason: fmt.Sprintf(
				"no address configured, set %s_%s or provide %s",
				envPrefix, envKey(name), c.Network.GetDeploymentFile(),
			),
		}
	}
	return addr, nil
}

// SetAddress overrides one contract address in place. Highest precedence,
// meant for tests and programmatic embedders.
func (c *Config) SetAddress(name ContractName, addr string) {
	c.addresses[name] = addr
}
