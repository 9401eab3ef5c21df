package cpu

import (
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/wpgrad/internal/parallel"
	"github.com/born-ml/wpgrad/internal/tensor"
)

type binaryOp int

const (
	opAdd binaryOp = iota
	opSub
	opMul
)

type number interface {
	~float32 | ~float64 | ~int32 | ~int64
}

func apply[T number](op binaryOp) func(x, y T) T {
	switch op {
	case opAdd:
		return func(x, y T) T { return x + y }
	case opSub:
		return func(x, y T) T { return x - y }
	case opMul:
		return func(x, y T) T { return x * y }
	default:
		panic("unknown binary op")
	}
}

// binaryVectorized computes result = a op b for equal shapes.
func (cpu *CPUBackend) binaryVectorized(op binaryOp, result, a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		vectorized(cpu.parallel, op, result.AsFloat32(), a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		vectorizedFloat64(cpu.parallel, op, result.AsFloat64(), a.AsFloat64(), b.AsFloat64())
	case tensor.Int32:
		vectorized(cpu.parallel, op, result.AsInt32(), a.AsInt32(), b.AsInt32())
	case tensor.Int64:
		vectorized(cpu.parallel, op, result.AsInt64(), a.AsInt64(), b.AsInt64())
	default:
		panic("binaryVectorized: unsupported dtype")
	}
}

func vectorized[T number](cfg parallel.Config, op binaryOp, dst, a, b []T) {
	f := apply[T](op)
	parallel.ForRange(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = f(a[i], b[i])
		}
	}, cfg)
}

func vectorizedFloat64(cfg parallel.Config, op binaryOp, dst, a, b []float64) {
	parallel.ForRange(len(dst), func(start, end int) {
		d, x, y := dst[start:end], a[start:end], b[start:end]
		switch op {
		case opAdd:
			floats.AddTo(d, x, y)
		case opSub:
			floats.SubTo(d, x, y)
		case opMul:
			floats.MulTo(d, x, y)
		}
	}, cfg)
}

// binaryBroadcast computes result = a op b with broadcasting.
func binaryBroadcast(op binaryOp, result, a, b *tensor.RawTensor, outShape tensor.Shape) {
	switch a.DType() {
	case tensor.Float32:
		broadcast(op, result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape)
	case tensor.Float64:
		broadcast(op, result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape)
	case tensor.Int32:
		broadcast(op, result.AsInt32(), a.AsInt32(), b.AsInt32(), a.Shape(), b.Shape(), outShape)
	case tensor.Int64:
		broadcast(op, result.AsInt64(), a.AsInt64(), b.AsInt64(), a.Shape(), b.Shape(), outShape)
	default:
		panic("binaryBroadcast: unsupported dtype")
	}
}

func broadcast[T number](op binaryOp, dst, a, b []T, aShape, bShape, outShape tensor.Shape) {
	f := apply[T](op)
	outStrides := outShape.ComputeStrides()
	aStrides := computeBroadcastStridesForShape(aShape, outShape)
	bStrides := computeBroadcastStridesForShape(bShape, outShape)

	for i := range dst {
		aIdx := computeFlatIndex(i, outStrides, aStrides)
		bIdx := computeFlatIndex(i, outStrides, bStrides)
		dst[i] = f(a[aIdx], b[bIdx])
	}
}

// computeBroadcastStridesForShape returns strides that map an output
// coordinate onto inShape: left-padded and size-1 dimensions get stride 0.
func computeBroadcastStridesForShape(inShape, outShape tensor.Shape) []int {
	strides := make([]int, len(outShape))
	inStrides := inShape.ComputeStrides()
	pad := len(outShape) - len(inShape)

	for i := pad; i < len(outShape); i++ {
		if inShape[i-pad] != 1 {
			strides[i] = inStrides[i-pad]
		}
	}
	return strides
}

// computeFlatIndex maps a flat output index to the flat index of a
// broadcast operand.
func computeFlatIndex(outIdx int, outStrides, inStrides []int) int {
	flatIdx := 0
	for i, stride := range outStrides {
		flatIdx += (outIdx / stride) * inStrides[i]
		outIdx %= stride
	}
	return flatIdx
}
