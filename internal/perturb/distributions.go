package perturb

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/wpgrad/internal/tensor"
)

// ErrInvalidScale is returned by constructors given a non-positive or
// non-finite spread.
var ErrInvalidScale = errors.New("perturb: scale must be positive and finite")

// Rander is a source of i.i.d. float64 draws. Every distuv distribution
// satisfies it.
type Rander interface {
	Rand() float64
}

// Sampler is a Distribution that fills tensors element by element from a
// Rander. It is safe for concurrent use.
type Sampler[T tensor.DType, B tensor.Backend] struct {
	mu      sync.Mutex
	src     Rander
	scale   float64
	backend B
}

// NewSampler wraps src. scale is reported by Scale and should be the
// standard deviation of src.
func NewSampler[T tensor.DType, B tensor.Backend](src Rander, scale float64, b B) *Sampler[T, B] {
	return &Sampler[T, B]{src: src, scale: scale, backend: b}
}

// Sample draws a tensor of the given shape.
func (s *Sampler[T, B]) Sample(shape tensor.Shape) (*tensor.Tensor[T, B], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	t := tensor.Zeros[T](shape, s.backend)
	data := t.Data()

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range data {
		data[i] = T(s.src.Rand())
	}
	return t, nil
}

// Scale returns the standard deviation (σ) of the draws.
func (s *Sampler[T, B]) Scale() float64 {
	return s.scale
}

// Normal returns a zero-mean Gaussian sampler with standard deviation sigma.
func Normal[T tensor.DType, B tensor.Backend](sigma float64, seed uint64, b B) (*Sampler[T, B], error) {
	if err := checkScale(sigma); err != nil {
		return nil, err
	}
	src := distuv.Normal{Mu: 0, Sigma: sigma, Src: newSource(seed)}
	return NewSampler[T](src, sigma, b), nil
}

// Rademacher returns a sampler drawing ±sigma with equal probability.
// Its variance is sigma², the same as Normal(sigma).
func Rademacher[T tensor.DType, B tensor.Backend](sigma float64, seed uint64, b B) (*Sampler[T, B], error) {
	if err := checkScale(sigma); err != nil {
		return nil, err
	}
	src := rademacher{coin: distuv.Bernoulli{P: 0.5, Src: newSource(seed)}, sigma: sigma}
	return NewSampler[T](src, sigma, b), nil
}

// Uniform returns a sampler drawing from [lo, hi).
func Uniform[T tensor.DType, B tensor.Backend](lo, hi float64, seed uint64, b B) (*Sampler[T, B], error) {
	if !(hi > lo) || math.IsInf(hi-lo, 0) {
		return nil, fmt.Errorf("%w: uniform bounds [%v, %v)", ErrInvalidScale, lo, hi)
	}
	src := distuv.Uniform{Min: lo, Max: hi, Src: newSource(seed)}
	return NewSampler[T](src, src.StdDev(), b), nil
}

type rademacher struct {
	coin  distuv.Bernoulli
	sigma float64
}

func (r rademacher) Rand() float64 {
	return r.sigma * (2*r.coin.Rand() - 1)
}

func checkScale(sigma float64) error {
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidScale, sigma)
	}
	return nil
}

// newSource returns a PCG source; the second state word is derived from the
// seed so one number fully determines the stream.
func newSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}
