// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/born-ml/wpgrad/internal/backend/cpu"
	"github.com/born-ml/wpgrad/tensor"
)

// TestBackendInterface verifies that cpu.CPUBackend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = (*cpu.CPUBackend)(nil)
}

// TestRawTensorAPI verifies RawTensor type alias exposes expected API.
func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	if !raw.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", raw.Shape())
	}
	if raw.DType() != tensor.Float32 {
		t.Errorf("DType() = %v, want Float32", raw.DType())
	}
	if raw.Device() != tensor.CPU {
		t.Errorf("Device() = %v, want CPU", raw.Device())
	}
	if n := raw.NumElements(); n != 6 {
		t.Errorf("NumElements() = %d, want 6", n)
	}
	if size := len(raw.Data()); size != 6*4 {
		t.Errorf("len(Data()) = %d, want %d", size, 6*4)
	}

	raw.AsFloat32()[0] = 1
	clone := raw.Clone()
	clone.AsFloat32()[0] = 2
	if raw.AsFloat32()[0] != 1 {
		t.Error("Clone() shares the buffer with the original")
	}
}

// TestTensorAPI exercises the creation wrappers end to end.
func TestTensorAPI(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	y := tensor.Ones[float64](tensor.Shape{2}, backend)

	z := x.Add(y).MulScalar(2)
	want := []float64{4, 6, 8, 10}
	for i, v := range z.Data() {
		if v != want[i] {
			t.Fatalf("(x + 1) * 2 = %v, want %v", z.Data(), want)
		}
	}

	if s := tensor.Scalar[float64](3, backend); s.Item() != 3 {
		t.Errorf("Scalar(3).Item() = %v", s.Item())
	}

	if _, _, err := tensor.BroadcastShapes(tensor.Shape{3}, tensor.Shape{4}); err == nil {
		t.Error("expected broadcast error for [3] and [4]")
	}
}
