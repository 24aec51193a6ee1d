// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/ffnn/internal/linalg"
	"github.com/born-ml/ffnn/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer[T linalg.Float] = optim.Optimizer[T]

// Config represents the base configuration for optimizers.
type Config = optim.Config

// SGD (Stochastic Gradient Descent)

// SGD represents the SGD optimizer with optional momentum.
type SGD[T linalg.Float] = optim.SGD[T]

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	optimizer := optim.NewSGD[float32](optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
func NewSGD[T linalg.Float](config SGDConfig) *SGD[T] {
	return optim.NewSGD[T](config)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer.
type Adam[T linalg.Float] = optim.Adam[T]

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with bias correction.
//
// Example:
//
//	optimizer := optim.NewAdam[float64](optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float64{0.9, 0.999},
//	    Eps:   1e-8,
//	})
func NewAdam[T linalg.Float](config AdamConfig) *Adam[T] {
	return optim.NewAdam[T](config)
}

// Schedules

// LinearDecay lowers the learning rate by a fixed amount at a fixed period.
type LinearDecay = optim.LinearDecay

// DefaultDecay subtracts 1e-6 every 1000 steps with a floor of 1e-6.
var DefaultDecay = optim.DefaultDecay
