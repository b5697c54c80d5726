package ledger

import (
	"errors"
	"fmt"

	"github.com/anyswap/iconic/rpc/client"
)

// ledger mapping errors
var (
	ErrRPCFailure      = errors.New("ethereum rpc failure")
	ErrContractCall    = errors.New("icon contract call failed")
	ErrInvalidMetadata = errors.New("invalid icon contract metadata")

	// ErrNetworkNotDeployed is a configuration fault,
	// the connection can not be used and retrying does not help
	ErrNetworkNotDeployed = errors.New("icon contract is not deployed on this network")
)

// IsFatal is err a configuration fault of the connection
func IsFatal(err error) bool {
	return errors.Is(err, ErrNetworkNotDeployed) || errors.Is(err, ErrInvalidMetadata)
}

// errors reported by the node about executing a call are contract failures,
// everything else happened on the way to or from the node
func wrapCallError(err error, method string) error {
	var rpcErr *client.Error
	if errors.As(err, &rpcErr) {
		return fmt.Errorf("%w: call '%v' failed: %v", ErrContractCall, method, err)
	}
	return wrapRPCError(err, method)
}

func wrapRPCError(err error, method string) error {
	return fmt.Errorf("%w: call '%v' failed: %v", ErrRPCFailure, method, err)
}
