package chain

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"

	"tokenlens/internal/config"
)

// ErrUnsupportedChain marks a blockchain outside the configured mapping
// tables. It is a validation-class failure: callers reject the request before
// any provider is contacted.
var ErrUnsupportedChain = errors.New("unsupported blockchain")

// Info carries the provider identifiers for one logical blockchain.
type Info struct {
	Name        string
	ChainID     string
	USDCAddress string
	PlatformID  string
}

// Registry resolves logical blockchain names (SOL, BASE) to provider
// identifiers. Built once from config at process start.
type Registry struct {
	chains map[string]Info
}

func NewRegistry(cfgs map[string]config.ChainConfig) *Registry {
	chains := make(map[string]Info, len(cfgs))
	for name, c := range cfgs {
		upper := strings.ToUpper(strings.TrimSpace(name))
		if upper == "" {
			continue
		}
		chains[upper] = Info{
			Name:        upper,
			ChainID:     c.ChainID,
			USDCAddress: c.USDCAddress,
			PlatformID:  c.PlatformID,
		}
	}
	return &Registry{chains: chains}
}

func (r *Registry) Lookup(blockchain string) (Info, error) {
	info, ok := r.chains[strings.ToUpper(strings.TrimSpace(blockchain))]
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrUnsupportedChain, blockchain)
	}
	return info, nil
}

func (r *Registry) Supported() []string {
	names := make([]string, 0, len(r.chains))
	for name := range r.chains {
		names = append(names, name)
	}
	return names
}

// ValidateAddress checks the shape of a contract address for the given chain:
// a 32-byte base58 mint on SOL, a 20-byte 0x-hex address on EVM chains.
func ValidateAddress(blockchain, address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errors.New("contract address is required")
	}
	switch strings.ToUpper(strings.TrimSpace(blockchain)) {
	case "SOL":
		raw, err := base58.Decode(address)
		if err != nil {
			return fmt.Errorf("invalid solana address: %w", err)
		}
		if len(raw) != 32 {
			return fmt.Errorf("invalid solana address: %d bytes", len(raw))
		}
	default:
		if !strings.HasPrefix(address, "0x") {
			return errors.New("invalid evm address: missing 0x prefix")
		}
		raw, err := hex.DecodeString(address[2:])
		if err != nil {
			return fmt.Errorf("invalid evm address: %w", err)
		}
		if len(raw) != 20 {
			return fmt.Errorf("invalid evm address: %d bytes", len(raw))
		}
	}
	return nil
}
