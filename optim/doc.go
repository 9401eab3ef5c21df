// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim applies weight-perturbation gradient estimates to parameters.
//
// # Overview
//
// This package contains:
//   - UpdateWeights: the update rule p' = p - lr/σ² · grad
//   - WP: an optimizer holding the learning rate and perturbation scale
//   - Optimizer interface for custom optimizers
//
// The raw estimate from package wp is proportional to σ²·∇L, so the update
// divides by σ² to keep the learning rate independent of the perturbation
// size.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/wpgrad/backend/cpu"
//	    "github.com/born-ml/wpgrad/optim"
//	    "github.com/born-ml/wpgrad/perturb"
//	    "github.com/born-ml/wpgrad/wp"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    dist, _ := perturb.Normal[float32](0.01, 42, backend)
//
//	    opt := optim.NewWP[float32, *cpu.Backend](optim.WPConfig{
//	        LR:    1e-3,
//	        Scale: dist.Scale(),
//	    })
//
//	    for step := range steps {
//	        grad, err := wp.Estimate(eval, weights, dist, wp.FFD)
//	        if err != nil {
//	            log.Fatal(err)
//	        }
//	        weights, err = opt.Step(grad, weights)
//	        if err != nil {
//	            log.Fatal(err)
//	        }
//	    }
//	}
//
// # Key Semantics
//
// The result of an update holds exactly the gradient's keys. Parameters
// without a gradient are dropped, and a gradient key missing from the
// parameters fails with params.ErrKeyMismatch. A zero scale fails with
// ErrZeroScale.
package optim
