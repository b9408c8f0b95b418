package vm

// Gas cost schedule for host import work. Guest instruction costs are charged
// by the instrumented contract itself through the gas_consume import.
const (
	gasCostHostCall = 100 // flat cost per host import call
	gasCostPerByte  = 3   // per byte copied across the host/guest boundary
	gasCostScanItem = 50  // per record yielded by an iterator
)

// GasMeter bounds the total work of one sandbox call. Host import work and
// guest instruction execution share the single budget but report exhaustion
// with different error kinds, because they are detected at different layers
// and have different recoverability: OutOfGasError surfaces from a host call
// and is recoverable by the caller, ErrGasDepletion aborts the guest
// unconditionally.
//
// Execution within one call is single-threaded, so the meter is not
// synchronized.
type GasMeter struct {
	limit uint64
	used  uint64
}

func NewGasMeter(limit uint64) *GasMeter {
	return &GasMeter{limit: limit}
}

// ConsumeHost charges gas for work performed inside a host import call.
func (g *GasMeter) ConsumeHost(amount uint64) error {
	if amount > g.limit-g.used {
		return OutOfGasError{Remaining: g.limit - g.used, Requested: amount}
	}
	g.used += amount
	return nil
}

// ConsumeGuest charges gas reported by the guest's own instruction metering.
func (g *GasMeter) ConsumeGuest(amount uint64) error {
	if amount > g.limit-g.used {
		g.used = g.limit
		return ErrGasDepletion
	}
	g.used += amount
	return nil
}

func (g *GasMeter) Used() uint64 {
	return g.used
}

func (g *GasMeter) Remaining() uint64 {
	return g.limit - g.used
}

// copyCost is the host gas charge for transferring n bytes.
func copyCost(n int) uint64 {
	return gasCostHostCall + gasCostPerByte*uint64(n)
}
