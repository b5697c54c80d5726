package iconic

import (
	"fmt"

	"github.com/anyswap/iconic/ipfs"
)

// ErrNoIcon no icon is recorded for the account.
// It matches ipfs.ErrNotFound under errors.Is.
var ErrNoIcon = fmt.Errorf("%w: no icon on record", ipfs.ErrNotFound)
