package gillespie

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

// FuzzIngest drives every variant with arbitrary propensities and checks
// that valid input never yields NaN, an out-of-range index, or a
// zero-propensity index, and that invalid input is rejected with a Fault.
func FuzzIngest(f *testing.F) {
	f.Add([]byte{1, 2, 3}, uint64(0))
	f.Add([]byte{0, 0, 0}, uint64(1))
	f.Add([]byte{5}, uint64(2))
	f.Add([]byte{0, 0, 0, 0, 0, 0, 0xf8, 0x7f}, uint64(3)) // NaN

	f.Fuzz(func(t *testing.T, data []byte, seed uint64) {
		bytesProps := data
		floatProps := make([]float64, len(data)/8)
		for i := range floatProps {
			floatProps[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
		}

		src := &scripted{
			units:   []float64{float64(seed%1000) / 1000, math.Nextafter(1, 0)},
			indices: []uint64{seed, seed >> 7},
		}
		for _, c := range []Config{
			{ExactTime: true, PersistentBuffer: true},
			{ExactTime: true},
			{PersistentBuffer: true},
			{},
		} {
			checkIngest(t, c, src, bytesProps)
			checkIngest(t, c, src, floatProps)
		}
	})
}

func checkIngest[T Number](t *testing.T, c Config, src Source, props []T) {
	t.Helper()
	if c.PersistentBuffer {
		c.ReactionCount = max(len(props), 1)
	}
	e, err := New[T](c, src)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	valid := Validate(props)
	func() {
		defer func() {
			r := recover()
			if valid == nil && r != nil {
				t.Fatalf("valid input %v panicked: %v", props, r)
			}
			if valid != nil {
				f, ok := r.(*Fault)
				if !ok || !errors.Is(f, errors.Unwrap(valid)) && !errors.Is(f, valid) {
					t.Fatalf("invalid input %v: got panic %v, want fault for %v", props, r, valid)
				}
			}
		}()
		e.Ingest(props)
	}()
	if valid != nil {
		return
	}

	tau := e.WaitingTime()
	idx := e.FiringIndex()
	if math.IsNaN(tau) || tau < 0 {
		t.Fatalf("props %v: bad waiting time %v", props, tau)
	}
	if e.A0() == 0 {
		if idx != len(props) || !math.IsInf(tau, 1) {
			t.Fatalf("props %v: quiescent system gave index %d, tau %v", props, idx, tau)
		}
		return
	}
	if idx < 0 || idx >= len(props) || !(props[idx] > 0) {
		t.Fatalf("props %v: index %d is not a live reaction", props, idx)
	}
}
