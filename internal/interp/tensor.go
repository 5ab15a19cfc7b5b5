package interp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Tensor is a dense float tensor. Comparisons produce boolean tensors.
type Tensor struct {
	Shape  []int
	Data   []float64
	IsBool bool
}

// Scalar returns a zero-dimensional tensor.
func Scalar(f float64) *Tensor {
	return &Tensor{Data: []float64{f}}
}

// NewTensor builds a tensor, checking that shape and data agree.
func NewTensor(shape []int64, data []float64) (*Tensor, error) {
	dims := make([]int, len(shape))
	n := 1
	for i, d := range shape {
		dim, err := safecast.Conv[int](d)
		if err != nil {
			return nil, fmt.Errorf("tensor dimension %d: %w", i, err)
		}
		if dim < 0 {
			return nil, fmt.Errorf("tensor dimension %d is negative", i)
		}
		dims[i] = dim
		n *= dim
	}
	if n != len(data) {
		return nil, fmt.Errorf("shape %v holds %d elements, got %d", shape, n, len(data))
	}
	out := make([]float64, len(data))
	copy(out, data)
	return &Tensor{Shape: dims, Data: out}, nil
}

// Vector is a one-dimensional tensor.
func Vector(data ...float64) *Tensor {
	out := make([]float64, len(data))
	copy(out, data)
	return &Tensor{Shape: []int{len(data)}, Data: out}
}

// Len is the number of elements.
func (t *Tensor) Len() int { return len(t.Data) }

var errAmbiguousTruth = errors.New("boolean value of Tensor with more than one value is ambiguous")

// Truth is defined only for one-element tensors.
func (t *Tensor) Truth() (bool, error) {
	if t.Len() != 1 {
		return false, errAmbiguousTruth
	}
	return t.Data[0] != 0, nil
}

// compare applies cmp elementwise, broadcasting one-element operands.
func (t *Tensor) compare(other *Tensor, cmp func(a, b float64) bool) (*Tensor, error) {
	shape := t.Shape
	n := t.Len()
	switch {
	case t.Len() == other.Len():
		if len(other.Shape) > len(shape) {
			shape = other.Shape
		}
	case t.Len() == 1:
		shape, n = other.Shape, other.Len()
	case other.Len() == 1:
	default:
		return nil, fmt.Errorf("shapes %v and %v cannot be broadcast", t.Shape, other.Shape)
	}
	out := &Tensor{Shape: append([]int(nil), shape...), Data: make([]float64, n), IsBool: true}
	for i := range n {
		a := t.Data[min(i, t.Len()-1)]
		b := other.Data[min(i, other.Len()-1)]
		if cmp(a, b) {
			out.Data[i] = 1
		}
	}
	return out, nil
}

func (t *Tensor) String() string {
	if t == nil {
		return "tensor(<nil>)"
	}
	elem := func(f float64) string {
		if t.IsBool {
			if f != 0 {
				return "True"
			}
			return "False"
		}
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eIN") {
			s += "."
		}
		return s
	}
	if len(t.Shape) == 0 {
		return "tensor(" + elem(t.Data[0]) + ")"
	}
	parts := make([]string, len(t.Data))
	for i, f := range t.Data {
		parts[i] = elem(f)
	}
	return "tensor([" + strings.Join(parts, ", ") + "])"
}
