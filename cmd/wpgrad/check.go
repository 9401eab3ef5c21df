package main

import (
	"flag"
	"fmt"
	"log"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/wpgrad/backend/cpu"
	"github.com/born-ml/wpgrad/params"
	"github.com/born-ml/wpgrad/tensor"
	"github.com/born-ml/wpgrad/wp"
)

// runCheck averages many raw estimates of a quadratic's gradient and compares
// them with a central-difference reference.
func runCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	methodName := fs.String("method", "ffd", "Finite-difference scheme: ffd or cfd")
	sigma := fs.Float64("sigma", 0.01, "Perturbation standard deviation")
	seed := fs.Uint64("seed", 1, "Random seed")
	samples := fs.Int("samples", 2000, "Number of estimates to average")
	distName := fs.String("dist", "normal", "Perturbation distribution: normal or rademacher")
	dim := fs.Int("dim", 8, "Number of parameters")
	_ = fs.Parse(args)

	method, err := wp.ParseMethod(*methodName)
	if err != nil {
		log.Fatalf("Invalid -method: %v", err)
	}
	if *samples < 1 || *dim < 1 {
		log.Fatalf("Invalid flags: -samples and -dim must be at least 1")
	}

	backend := cpu.New()
	dist, err := newDistribution(*distName, *sigma, *seed, backend)
	if err != nil {
		log.Fatalf("Failed to create distribution: %v", err)
	}
	estimator, err := wp.NewEstimator[float64, Backend](wp.Config{Method: method})
	if err != nil {
		log.Fatalf("Failed to create estimator: %v", err)
	}

	// L(x) = Σ (i+1)/2 · x_i², evaluated at x_i = 1 - i/dim.
	curvature := make([]float64, *dim)
	start := make([]float64, *dim)
	for i := range curvature {
		curvature[i] = float64(i+1) / 2
		start[i] = 1 - float64(i)/float64(*dim)
	}
	x, err := tensor.FromSlice(start, tensor.Shape{*dim}, backend)
	if err != nil {
		log.Fatalf("Failed to create parameters: %v", err)
	}
	p := params.New(params.Entry("x", x))

	loss := func(q *Params) (float64, error) {
		t, _ := q.Get("x")
		sum := 0.0
		for i, v := range t.Data() {
			sum += curvature[i] * v * v
		}
		return sum, nil
	}

	reference, err := wp.Reference(loss, p, 0)
	if err != nil {
		log.Fatalf("Reference gradient failed: %v", err)
	}

	eval := wp.Explicit(struct{}{}, p, func(_ struct{}, q *Params) (float64, error) {
		return loss(q)
	})
	mean, err := averageEstimate(estimator, eval, p, dist, *samples)
	if err != nil {
		log.Fatalf("Estimate failed: %v", err)
	}
	s := *sigma
	mean = params.Scale(mean, 1/(s*s))

	sim, err := wp.CosineSimilarity(mean, reference)
	if err != nil {
		log.Fatalf("Comparison failed: %v", err)
	}
	ratio := floats.Norm(params.Flatten(mean), 2) / floats.Norm(params.Flatten(reference), 2)

	fmt.Printf("Method: %s, dist: %s(σ=%g), samples: %d, dim: %d\n", method, *distName, *sigma, *samples, *dim)
	fmt.Printf("   Cosine similarity: %.4f\n", sim)
	fmt.Printf("   Norm ratio:        %.4f\n", ratio)
}
