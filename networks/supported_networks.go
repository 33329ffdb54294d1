package networks

import (
	"fmt"
	"os"
	"strings"
)

// Insert more Network implementations here to support more chains
var supportedNetworks = []Network{
	Hardhat,
	Sepolia,
	EthereumMainnet,
}

var globalSupportedNetworks = newSupportedNetworks()

var ErrNetworkNotFound = fmt.Errorf("network not found")

type networkRegistry struct {
	networks     map[string]Network
	networksByID map[int64]Network
}

func (n *networkRegistry) getSupportedNetworkNames() []string {
	res := []string{}
	for _, nw := range n.networks {
		res = append(res, nw.GetName())
	}
	return res
}

func (n *networkRegistry) getNetworkByID(id int64) (Network, error) {
	res, found := n.networksByID[id]
	if !found {
		return nil, fmt.Errorf("network id %d is not supported", id)
	}
	return res, nil
}

func (n *networkRegistry) getNetwork(name string) (Network, error) {
	res, found := n.networks[strings.ToLower(name)]
	if !found {
		return nil, fmt.Errorf("network name '%s': %w", name, ErrNetworkNotFound)
	}
	return res, nil
}

func newSupportedNetworks() *networkRegistry {
	result := networkRegistry{
		map[string]Network{},
		map[int64]Network{},
	}
	for _, n := range supportedNetworks {
		if _, found := result.networks[n.GetName()]; found {
			panic(fmt.Errorf("network with name or alternative name of '%s' already exists", n.GetName()))
		}
		result.networks[n.GetName()] = n
		result.networksByID[n.GetChainID()] = n
		for _, an := range n.GetAlternativeNames() {
			if _, found := result.networks[an]; found {
				panic(fmt.Errorf("network with name or alternative name of '%s' already exists", an))
			}
			result.networks[an] = n
		}
	}
	return &result
}

func GetSupportedNetworkNames() []string {
	return globalSupportedNetworks.getSupportedNetworkNames()
}

func GetNetwork(name string) (Network, error) {
	return globalSupportedNetworks.getNetwork(name)
}

func GetNetworkByID(id int64) (Network, error) {
	return globalSupportedNetworks.getNetworkByID(id)
}

// GetNodes returns the node name => url map to use for network, preferring
// the url in the network's env var override if it is set.
func GetNodes(network Network) map[string]string {
	custom := strings.TrimSpace(os.Getenv(network.GetNodeVariableName()))
	if custom != "" {
		return map[string]string{
			"custom-node": custom,
		}
	}
	return network.GetDefaultNodes()
}
