package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrContractNotDeployed means there is no code at the contract's bound
	// address. The backing chain state was reset or the deployment file is
	// stale; callers must surface this prominently instead of rendering an
	// empty listing.
	ErrContractNotDeployed = errors.New("no contract code at the configured address, the node may have been restarted, redeploy the contracts")

	// ErrWalletNotConnected means a write was requested without an unlocked
	// wallet attached to the resolver.
	ErrWalletNotConnected = errors.New("wallet is not connected")
)

// ConfigError reports a missing or unusable piece of deployment
// configuration, typically an unset contract address.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

// NetworkMismatchError is returned when the wallet's active chain differs
// from the chain the contracts are deployed on. The tx must not be submitted.
type NetworkMismatchError struct {
	Actual   int64
	Expected int64
}

func (e *NetworkMismatchError) Error() string {
	return fmt.Sprintf(
		"wallet is on chain %d but contracts are deployed on chain %d, switch your wallet network",
		e.Actual, e.Expected,
	)
}

// NumericOverflowError reports a contract field too large for the bounded
// integer representation the read model uses. Per-record, never fatal.
type NumericOverflowError struct {
	Field string
	Value string
}

func (e *NumericOverflowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("numeric overflow decoding %s", e.Value)
	}
	return fmt.Sprintf("numeric overflow decoding %s = %s", e.Field, e.Value)
}

// IsRevert reports whether err looks like an EVM revert or call exception.
// Node implementations don't agree on the exact error text so this matches
// the substrings seen from geth, hardhat and erigon.
func IsRevert(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "revert") ||
		strings.Contains(msg, "call exception") ||
		strings.Contains(msg, "invalid opcode")
}

// IsMethodMissing reports whether err indicates the called method does not
// exist on the deployed contract: either the node said so outright or the
// call returned no data for a method that declares outputs, which is what
// an older deployment answers to a selector it doesn't know.
func IsMethodMissing(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") ||
		strings.Contains(msg, "unmarshalling empty output") ||
		strings.Contains(msg, "improperly formatted output")
}

// RevertReason extracts a human readable reason from a failed contract
// call or tx, preferring the contract supplied revert string when present.
func RevertReason(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if idx := strings.Index(msg, "execution reverted:"); idx >= 0 {
		reason := strings.TrimSpace(msg[idx+len("execution reverted:"):])
		if reason != "" {
			return reason
		}
	}
	return msg
}
