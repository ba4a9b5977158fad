package ethereum

import (
	"fmt"
	"strings"

	"ledgervote/contexts/governance/election-engine/domain/valueobjects"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// AddressDeriver derives election addresses the way a factory contract's
// CREATE would: from the factory address and the election sequence number.
type AddressDeriver struct {
	factory common.Address
}

func NewAddressDeriver(factory string) (AddressDeriver, error) {
	value := strings.TrimSpace(factory)
	if !common.IsHexAddress(value) {
		return AddressDeriver{}, fmt.Errorf("factory address %q is not a hex address", factory)
	}
	address := common.HexToAddress(value)
	if address == (common.Address{}) {
		return AddressDeriver{}, fmt.Errorf("factory address must not be zero")
	}
	return AddressDeriver{factory: address}, nil
}

func (d AddressDeriver) Factory() string {
	return strings.ToLower(d.factory.Hex())
}

func (d AddressDeriver) ElectionAddress(electionID uint64) (valueobjects.Address, error) {
	derived := crypto.CreateAddress(d.factory, electionID)
	return valueobjects.NewAddress(derived.Hex())
}
