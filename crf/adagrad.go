package crf

import "math"

// adagradEpsilon keeps the adaptive denominator away from zero on a
// feature's first update.
const adagradEpsilon = 1e-8

// Adagrad applies online gradient updates with a per-feature adaptive step
// size: each feature's effective learning rate shrinks with the accumulated
// magnitude of its past gradients, so rarely-updated features take larger
// steps. The optimizer owns only the accumulator; the weight vector belongs
// to the model.
type Adagrad struct {
	eta   float64
	sumSq []float64
}

// NewAdagrad creates an optimizer for n weights with global learning rate eta.
func NewAdagrad(n int, eta float64) *Adagrad {
	return &Adagrad{
		eta:   eta,
		sumSq: make([]float64, n),
	}
}

// Apply adds the sparse gradient to the weight vector in place. Coordinates
// are independent, so the result does not depend on map iteration order.
func (o *Adagrad) Apply(weights []float64, grad map[int]float64) {
	for i, g := range grad {
		o.sumSq[i] += g * g
		weights[i] += o.eta * g / (adagradEpsilon + math.Sqrt(o.sumSq[i]))
	}
}
