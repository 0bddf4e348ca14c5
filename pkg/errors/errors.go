package errors

import "errors"

// ErrOptimisticLock means the record was modified by another operation after it was read.
var ErrOptimisticLock = errors.New("record was modified by another operation, refresh and retry")
