package qrng

import "context"

/*
Backend is the execution capability the runner dispatches circuits to. The
two shipped implementations are the local noisy Simulator and the remote
Device; additional backends only need to honor the counts contract, the
runner's post-processing never changes.

Execute runs the circuit for the requested number of shots and returns the
aggregated counts: a mapping from fixed-width bitstring to occurrence count
whose values sum to shots. Either the full mapping is returned or the call
fails entirely; no partial shot results exist.
*/
type Backend interface {
	Name() string
	Execute(ctx context.Context, circuit *Circuit, shots int) (Counts, error)
}
