package ledger

import "errors"

var ErrNotInitialized = errors.New("no ledger exists for this user")
var ErrUnknownCategory = errors.New("category or month is not present in the schema")
var ErrBadAmount = errors.New("amount must be a non-negative whole number")
var ErrOwnerExists = errors.New("owner is already registered")
