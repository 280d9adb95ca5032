package ledger

import "errors"

// ErrLedger wraps every failure talking to the ledger backend.
var ErrLedger = errors.New("ledger backend error")
