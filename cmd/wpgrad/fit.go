package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/born-ml/wpgrad/backend/cpu"
	"github.com/born-ml/wpgrad/optim"
	"github.com/born-ml/wpgrad/params"
	"github.com/born-ml/wpgrad/perturb"
	"github.com/born-ml/wpgrad/wp"
)

func runFit(args []string) {
	fs := flag.NewFlagSet("fit", flag.ExitOnError)
	methodName := fs.String("method", "ffd", "Finite-difference scheme: ffd or cfd")
	sigma := fs.Float64("sigma", 0.01, "Perturbation standard deviation")
	lr := fs.Float64("lr", 0.05, "Learning rate")
	steps := fs.Int("steps", 300, "Number of update steps")
	seed := fs.Uint64("seed", 1, "Random seed")
	samples := fs.Int("samples", 8, "Estimates averaged per step")
	distName := fs.String("dist", "normal", "Perturbation distribution: normal or rademacher")
	adapter := fs.String("adapter", "explicit", "Loss adapter: explicit or perturbed")
	concurrent := fs.Bool("concurrent", false, "Run the two loss evaluations concurrently")
	dim := fs.Int("dim", 4, "Number of features")
	n := fs.Int("n", 256, "Number of synthetic samples")
	_ = fs.Parse(args)

	method, err := wp.ParseMethod(*methodName)
	if err != nil {
		log.Fatalf("Invalid -method: %v", err)
	}
	if *samples < 1 {
		log.Fatalf("Invalid -samples: must be at least 1, got %d", *samples)
	}
	if *dim < 1 || *n < 1 {
		log.Fatalf("Invalid flags: -dim and -n must be at least 1, got %d and %d", *dim, *n)
	}

	backend := cpu.New()
	dist, err := newDistribution(*distName, *sigma, *seed, backend)
	if err != nil {
		log.Fatalf("Failed to create distribution: %v", err)
	}

	estimator, err := wp.NewEstimator[float64, Backend](wp.Config{Method: method, Concurrent: *concurrent})
	if err != nil {
		log.Fatalf("Failed to create estimator: %v", err)
	}
	opt := optim.NewWP[float64, Backend](optim.WPConfig{LR: *lr, Scale: *sigma})

	data := NewDataset(*n, *dim, 0.1, *seed+1)
	model := zeroModel(data.Dim(), backend)

	fmt.Println("wpgrad - linear regression by weight perturbation")
	fmt.Printf("   Method: %s, dist: %s(σ=%g), adapter: %s, concurrent: %v\n",
		method, *distName, *sigma, *adapter, *concurrent)
	fmt.Printf("   Samples: %d, features: %d, steps: %d, lr: %g\n\n", *n, data.Dim(), *steps, *lr)

	logEvery := max(*steps/10, 1)
	for step := range *steps {
		eval, err := newEvaluator(*adapter, data, model)
		if err != nil {
			log.Fatalf("Invalid -adapter: %v", err)
		}

		grad, err := averageEstimate(estimator, eval, model, dist, *samples)
		if err != nil {
			log.Fatalf("Step %d: estimate failed: %v", step, err)
		}
		model, err = opt.Step(grad, model)
		if err != nil {
			log.Fatalf("Step %d: update failed: %v", step, err)
		}

		if (step+1)%logEvery == 0 || step == 0 {
			loss, err := data.MSE(model)
			if err != nil {
				log.Fatalf("Step %d: %v", step, err)
			}
			fmt.Printf("Step %4d/%d: MSE=%.6f\n", step+1, *steps, loss)
		}
	}

	w, _ := model.Get("weight")
	b, _ := model.Get("bias")
	fmt.Println("\nResult:")
	fmt.Printf("   weight: %.4f (true %.4f)\n", w.Data(), data.Weight)
	fmt.Printf("   bias:   %.4f (true %.4f)\n", b.Item(), data.Bias)
}

func newDistribution(name string, sigma float64, seed uint64, b Backend) (perturb.Distribution[float64, Backend], error) {
	var (
		dist *perturb.Sampler[float64, Backend]
		err  error
	)
	switch name {
	case "normal":
		dist, err = perturb.Normal[float64](sigma, seed, b)
	case "rademacher":
		dist, err = perturb.Rademacher[float64](sigma, seed, b)
	default:
		return nil, fmt.Errorf("unknown distribution %q, choose between: normal, rademacher", name)
	}
	if err != nil {
		return nil, err
	}
	return dist, nil
}

func newEvaluator(name string, data *Dataset, p *Params) (wp.Evaluator[float64, Backend], error) {
	switch name {
	case "explicit":
		return wp.Explicit(data, p, func(d *Dataset, q *Params) (float64, error) {
			return d.MSE(q)
		}), nil
	case "perturbed":
		return wp.WithPerturbation(data, p, func(d *Dataset, q, h *Params) (float64, error) {
			if h != nil {
				var err error
				if q, err = params.Add(q, h); err != nil {
					return 0, err
				}
			}
			return d.MSE(q)
		}), nil
	default:
		return nil, fmt.Errorf("unknown adapter %q, choose between: explicit, perturbed", name)
	}
}

// averageEstimate returns the mean of k independent estimates at p.
func averageEstimate(
	e *wp.Estimator[float64, Backend],
	eval wp.Evaluator[float64, Backend],
	p *Params,
	dist perturb.Distribution[float64, Backend],
	k int,
) (*Params, error) {
	var sum *Params
	for range k {
		grad, err := e.Estimate(eval, p, dist)
		if err != nil {
			return nil, err
		}
		if sum == nil {
			sum = grad
			continue
		}
		if sum, err = params.Add(sum, grad); err != nil {
			return nil, err
		}
	}
	return params.Scale(sum, 1/float64(k)), nil
}
