package jobs

// Queue identifies which worker pool a job is routed to.
type Queue string

const (
	// DefaultQueue serves CPU-bound work: trajectory stabilization,
	// possession extraction, phase classification, reporting.
	DefaultQueue Queue = "default"

	// GPUQueue serves jobs requiring GPU-backed inference (e.g. detector
	// or tracker models run via the adapters package).
	GPUQueue Queue = "gpu"
)

// Valid reports whether q is a recognized queue name.
func (q Queue) Valid() bool {
	return q == DefaultQueue || q == GPUQueue
}
