// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training feed-forward
// networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with optional momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - LinearDecay: step-wise learning-rate schedule
//   - Optimizer interface for custom optimizers
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/ffnn/nn"
//	    "github.com/born-ml/ffnn/optim"
//	)
//
//	func main() {
//	    optimizer := optim.NewSGD[float32](optim.SGDConfig{LR: 0.01})
//	    defer optimizer.Release()
//
//	    decay := optim.DefaultDecay
//	    for step := range iterations {
//	        if _, err := trainer.TrainBatch(batch, grads); err != nil {
//	            return err
//	        }
//	        if err := optimizer.Step(net, grads); err != nil {
//	            return err
//	        }
//	        optimizer.SetLR(decay.Next(optimizer.GetLR(), step))
//	    }
//	}
//
// # Update Rules
//
// SGD without momentum: θ ← θ − lr·g.
//
// SGD with momentum μ: v ← μ·v + g, θ ← θ − lr·v.
//
// Adam: m ← β1·m + (1−β1)·g, v ← β2·v + (1−β2)·g², θ ← θ − lr·m̂/(√v̂ + ε)
// with bias-corrected moments m̂ and v̂.
//
// Optimizer state is allocated on the first Step and reallocated when the
// network topology changes. Release frees it.
package optim
