package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/wpgrad/internal/parallel"
	"github.com/born-ml/wpgrad/internal/tensor"
)

// MulScalar multiplies each element of the tensor by a scalar value.
// The scalar must have the Go type matching the tensor dtype.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("mulScalar: failed to create result tensor: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		mulScalar(cpu.parallel, result.AsFloat32(), x.AsFloat32(), scalar.(float32))
	case tensor.Float64:
		dst, src, c := result.AsFloat64(), x.AsFloat64(), scalar.(float64)
		parallel.ForRange(len(dst), func(start, end int) {
			floats.ScaleTo(dst[start:end], c, src[start:end])
		}, cpu.parallel)
	case tensor.Int32:
		mulScalar(cpu.parallel, result.AsInt32(), x.AsInt32(), scalar.(int32))
	case tensor.Int64:
		mulScalar(cpu.parallel, result.AsInt64(), x.AsInt64(), scalar.(int64))
	default:
		panic(fmt.Sprintf("mulScalar: unsupported dtype %v", x.DType()))
	}

	return result
}

func mulScalar[T number](cfg parallel.Config, dst, src []T, scalar T) {
	parallel.ForRange(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = src[i] * scalar
		}
	}, cfg)
}
