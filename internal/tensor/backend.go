package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Every operation returns a newly allocated RawTensor; operands are read-only.
// Shape errors are programmer errors and panic, mirroring slice indexing.
// Callers that accept untrusted shapes check them with BroadcastShapes first.
//
// Implementations:
//   - CPU: Pure Go, gonum kernels for float64 (internal/backend/cpu)
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor

	// MulScalar multiplies every element by scalar.
	// The scalar's Go type must match the tensor dtype.
	MulScalar(x *RawTensor, scalar any) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
