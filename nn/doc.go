// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides a fully connected feed-forward network with
// mini-batch gradient training.
//
// # Overview
//
// This package contains:
//   - Network: dense layers with one shared activation, He initialization
//   - Activations: ReLU, LeakyReLU, Sigmoid
//   - Trace: cached forward pass used by back-propagation
//   - Trainer: batch-averaged gradients and held-out evaluation
//   - Save / Load: binary persistence of networks and gradients
//
// Parameters are updated by the optimizers in package optim.
//
// # Basic Usage
//
//	import (
//	    "math/rand/v2"
//
//	    "github.com/born-ml/ffnn/nn"
//	    "github.com/born-ml/ffnn/optim"
//	)
//
//	func main() {
//	    net, err := nn.New(nn.Config[float32]{
//	        InputSize: 2,
//	        Widths:    []int{4, 2, 1},
//	        Rand:      rand.New(rand.NewPCG(1, 0)),
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer net.Release()
//
//	    grads, _ := nn.NewGradients(net)
//	    defer grads.Release()
//
//	    trainer := nn.NewTrainer(net, nn.TrainerConfig{})
//	    sgd := optim.NewSGD[float32](optim.SGDConfig{LR: 0.01})
//
//	    batch := nn.Batch[float32]{Inputs: inputs, Labels: labels, Size: 300}
//	    for range 20000 {
//	        res, err := trainer.TrainBatch(batch, grads)
//	        if err != nil {
//	            log.Fatal(err)
//	        }
//	        _ = sgd.Step(net, grads)
//	        log.Println(res.Loss)
//	    }
//	}
//
// # Generators
//
// Examples are never materialized by the engine. A Generator fills a
// pre-sized vector for one example index; returning an error skips that
// example. Skipped examples still count in the batch-size divisor, so the
// loss and gradients of a batch with failures are biased toward zero.
//
// # Persistence
//
// Save writes an "FFNN" file: a fixed 64-byte header with a SHA-256
// checksum, a JSON description of the topology and activation, then the raw
// little-endian tensors. Load verifies the checksum before decoding and
// accepts float32 or float64 files for either element type.
//
// # Concurrency
//
// Networks, traces and gradients are not safe for concurrent use.
package nn
