package params

import (
	"fmt"

	"github.com/born-ml/wpgrad/internal/tensor"
)

// Add returns c with c[k] = a[k] + b[k] for every key k of a, in a's order.
//
// The key sets are treated asymmetrically: a key of a that is missing from b
// fails with a *KeyError (matching ErrKeyMismatch), while keys that only b
// has are ignored and do not appear in the result. The update rule relies on
// this to add a gradient over a subset of the parameters.
//
// Tensors under the same key must be broadcast-compatible, otherwise the
// error wraps ErrShapeMismatch. Neither operand is modified.
func Add[T tensor.DType, B tensor.Backend](a, b *Set[T, B]) (*Set[T, B], error) {
	return combine("add", a, b, (*tensor.Tensor[T, B]).Add)
}

// Sub returns c with c[k] = a[k] - b[k]. Key handling matches Add.
func Sub[T tensor.DType, B tensor.Backend](a, b *Set[T, B]) (*Set[T, B], error) {
	return combine("sub", a, b, (*tensor.Tensor[T, B]).Sub)
}

// Mul returns c with c[k] = a[k] * b[k]. Key handling matches Add.
func Mul[T tensor.DType, B tensor.Backend](a, b *Set[T, B]) (*Set[T, B], error) {
	return combine("mul", a, b, (*tensor.Tensor[T, B]).Mul)
}

func combine[T tensor.DType, B tensor.Backend](
	op string,
	a, b *Set[T, B],
	f func(x, y *tensor.Tensor[T, B]) *tensor.Tensor[T, B],
) (*Set[T, B], error) {
	out := &Set[T, B]{
		keys:    make([]string, 0, a.Len()),
		entries: make(map[string]*tensor.Tensor[T, B], a.Len()),
	}
	for k, x := range a.All() {
		y, ok := b.Get(k)
		if !ok {
			return nil, &KeyError{Op: op, Key: k}
		}
		if _, _, err := tensor.BroadcastShapes(x.Shape(), y.Shape()); err != nil {
			return nil, fmt.Errorf("%w: %s %q: %v", ErrShapeMismatch, op, k, err)
		}
		out.put(k, f(x, y))
	}
	return out, nil
}

// Scale returns c with c[k] = a[k] * factor for every key.
//
// Integer sets multiply in float64 and truncate the product toward zero, so
// Scale of 3 by 0.5 is 1. Scale(a, 1) equals a and Scale(a, 0) is all zeros.
func Scale[T tensor.DType, B tensor.Backend](a *Set[T, B], factor float64) *Set[T, B] {
	return a.Map(func(_ string, t *tensor.Tensor[T, B]) *tensor.Tensor[T, B] {
		if t.DType().IsFloat() {
			return t.MulScalar(T(factor))
		}
		return scaleTruncated(t, factor)
	})
}

func scaleTruncated[T tensor.DType, B tensor.Backend](t *tensor.Tensor[T, B], factor float64) *tensor.Tensor[T, B] {
	out := tensor.Zeros[T](t.Shape(), t.Backend())
	dst := out.Data()
	for i, v := range t.Data() {
		dst[i] = T(float64(v) * factor)
	}
	return out
}

// Neg returns -a.
func Neg[T tensor.DType, B tensor.Backend](a *Set[T, B]) *Set[T, B] {
	return a.Map(func(_ string, t *tensor.Tensor[T, B]) *tensor.Tensor[T, B] {
		return t.Neg()
	})
}

// AllClose reports whether a and b hold the same keys (in any order) with
// equal shapes and element-wise differences of at most tol.
func AllClose[T tensor.DType, B tensor.Backend](a, b *Set[T, B], tol float64) bool {
	if a.Len() != b.Len() {
		return false
	}
	for k, x := range a.All() {
		y, ok := b.Get(k)
		if !ok || !x.AllClose(y, tol) {
			return false
		}
	}
	return true
}
