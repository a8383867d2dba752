package alloc

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Binary unit factors
const (
	MiBPerGiB  = 1024
	KiBPerMiB  = 1024
	bytesInGiB = 1 << 30
)

// ErrInvalidVolume is returned for volumes that are negative, not finite, or not numbers at all.
var ErrInvalidVolume = errors.New("invalid volume")

// Volume is a total data size in GiB, held as an exact rational so that
// unit conversion and rounding never pick up floating-point error.
type Volume struct {
	gib *big.Rat
}

// ParseVolume parses a real-number literal in GiB (e.g. "10", "0.001", "1.5e3").
// Surrounding whitespace is ignored.
func ParseVolume(s string) (Volume, error) {
	s = strings.TrimSpace(s)

	// ParseFloat decides what counts as a number; big.Rat would also accept fractions like "1/3"
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Volume{}, fmt.Errorf("%w: %q is not a number", ErrInvalidVolume, s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Volume{}, fmt.Errorf("%w: %q is not finite", ErrInvalidVolume, s)
	}
	if f < 0 {
		return Volume{}, fmt.Errorf("%w: %q is negative", ErrInvalidVolume, s)
	}

	if f == 0 {
		// also covers literals that underflow, e.g. "-1e-400", whose exact value would need a huge denominator
		return Volume{gib: new(big.Rat)}, nil
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		r = new(big.Rat).SetFloat64(f)
	}
	return Volume{gib: r}, nil
}

// VolumeFromGiB converts a float GiB value into a Volume.
func VolumeFromGiB(gib float64) (Volume, error) {
	if math.IsNaN(gib) || math.IsInf(gib, 0) {
		return Volume{}, fmt.Errorf("%w: %v is not finite", ErrInvalidVolume, gib)
	}
	if gib < 0 {
		return Volume{}, fmt.Errorf("%w: %v is negative", ErrInvalidVolume, gib)
	}
	return Volume{gib: new(big.Rat).SetFloat64(gib)}, nil
}

// VolumeFromBytes returns the exact GiB volume of n bytes. Negative counts are treated as zero.
func VolumeFromBytes(n int64) Volume {
	if n < 0 {
		n = 0
	}
	return Volume{gib: big.NewRat(n, bytesInGiB)}
}

// MiB returns the volume in MiB.
func (v Volume) MiB() *big.Rat {
	return new(big.Rat).Mul(v.rat(), big.NewRat(MiBPerGiB, 1))
}

// GiB returns the nearest float64 to the volume in GiB.
func (v Volume) GiB() float64 {
	f, _ := v.rat().Float64()
	return f
}

// IsZero reports whether the volume is empty.
func (v Volume) IsZero() bool {
	return v.rat().Sign() == 0
}

// String formats the volume in GiB with up to six decimals, trailing zeros trimmed.
func (v Volume) String() string {
	s := v.rat().FloatString(6)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}

func (v Volume) rat() *big.Rat {
	if v.gib == nil {
		return new(big.Rat)
	}
	return v.gib
}
