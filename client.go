package rekey

import "github.com/arloliu/rekey/types"

// Type aliases for convenience - re-export from types package.
type (
	KeySlot          = types.KeySlot
	SlotNames        = types.SlotNames
	KeySet           = types.KeySet
	FailureClass     = types.FailureClass
	BulkWriteStats   = types.BulkWriteStats
	Logger           = types.Logger
	MetricsCollector = types.MetricsCollector
)

// Re-export key slot constants for convenience.
const (
	SlotPrimary   = types.SlotPrimary
	SlotSecondary = types.SlotSecondary
)

// Re-export failure class constants for convenience.
const (
	FatalStructural = types.FatalStructural
	AuthRotated     = types.AuthRotated
	Transient       = types.Transient
)
