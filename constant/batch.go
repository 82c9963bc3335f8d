package constant

// BatchStatus is the lifecycle state of a stock batch. Transitions are
// one-way: Active may move to any terminal state, terminal states never
// change again.
type BatchStatus int

const (
	BatchStatusActive   BatchStatus = 1
	BatchStatusDepleted BatchStatus = 2
	BatchStatusExpired  BatchStatus = 3
	BatchStatusDamaged  BatchStatus = 4
)

var batchStatusName = map[BatchStatus]string{
	BatchStatusActive:   "active",
	BatchStatusDepleted: "depleted",
	BatchStatusExpired:  "expired",
	BatchStatusDamaged:  "damaged",
}

func (s BatchStatus) String() string {
	return batchStatusName[s]
}

// IsTerminal reports whether a batch in this status accepts no further
// deductions.
func (s BatchStatus) IsTerminal() bool {
	return s == BatchStatusDepleted || s == BatchStatusExpired || s == BatchStatusDamaged
}

// Freshness is the expiry classification of a batch as of a given date.
type Freshness int

const (
	FreshnessHealthy      Freshness = 1
	FreshnessExpiringSoon Freshness = 2
	FreshnessExpired      Freshness = 3
)

var freshnessName = map[Freshness]string{
	FreshnessHealthy:      "healthy",
	FreshnessExpiringSoon: "expiring_soon",
	FreshnessExpired:      "expired",
}

func (f Freshness) String() string {
	return freshnessName[f]
}

// AllocationStrategy picks the order in which candidate batches are consumed.
type AllocationStrategy int

const (
	// StrategyFIFOReceipt consumes oldest received batches first,
	// batch number as tie-break.
	StrategyFIFOReceipt AllocationStrategy = 1
	// StrategyFIFOExpiry consumes soonest-to-expire batches first,
	// batches without expiry last.
	StrategyFIFOExpiry AllocationStrategy = 2
)

var allocationStrategyName = map[AllocationStrategy]string{
	StrategyFIFOReceipt: "fifo_receipt",
	StrategyFIFOExpiry:  "fifo_expiry",
}

func (s AllocationStrategy) String() string {
	return allocationStrategyName[s]
}

func ParseAllocationStrategy(v string) (AllocationStrategy, bool) {
	switch v {
	case "", "fifo_receipt":
		return StrategyFIFOReceipt, true
	case "fifo_expiry":
		return StrategyFIFOExpiry, true
	}
	return 0, false
}

// MutationKind distinguishes the stock adjustment operations.
type MutationKind int

const (
	MutationIncrease MutationKind = 1
	MutationDecrease MutationKind = 2
	MutationExpired  MutationKind = 3
	MutationDamaged  MutationKind = 4
)

var mutationKindName = map[MutationKind]string{
	MutationIncrease: "increase",
	MutationDecrease: "decrease",
	MutationExpired:  "expired",
	MutationDamaged:  "damaged",
}

func (k MutationKind) String() string {
	return mutationKindName[k]
}

func ParseMutationKind(v string) (MutationKind, bool) {
	for k, name := range mutationKindName {
		if name == v {
			return k, true
		}
	}
	return 0, false
}

// TerminalStatus returns the batch status applied to batches fully consumed
// by this mutation kind.
func (k MutationKind) TerminalStatus() BatchStatus {
	switch k {
	case MutationExpired:
		return BatchStatusExpired
	case MutationDamaged:
		return BatchStatusDamaged
	default:
		return BatchStatusDepleted
	}
}
