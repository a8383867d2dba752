// Package alloc computes per-file sizes that evenly split a data volume
// across a number of files while honouring the storage alignment rule:
// shares of 4 MiB or more are rounded up to a multiple of 4 MiB, smaller
// shares are rounded up to a whole MiB.
package alloc

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

// AlignmentMiB is the block granularity that shares at or above it must be a multiple of.
const AlignmentMiB = 4

var (
	// ErrInvalidFileCount is returned when the number of files is not positive.
	ErrInvalidFileCount = errors.New("number of files must be greater than 0")

	// ErrSizeOverflow is returned when the adjusted size cannot be expressed in KiB as an int64.
	ErrSizeOverflow = errors.New("allocated size is too large")
)

// maxMiB keeps MiB * KiBPerMiB within int64.
const maxMiB = math.MaxInt64 / KiBPerMiB

// Allocation is the adjusted per-file size for one file count.
type Allocation struct {
	NumFiles int
	MiB      int64
}

// GiB returns the per-file size in GiB.
func (a Allocation) GiB() float64 {
	return float64(a.MiB) / MiBPerGiB
}

// KiB returns the per-file size in KiB.
func (a Allocation) KiB() int64 {
	return a.MiB * KiBPerMiB
}

// TotalMiB returns the space taken by all files together.
func (a Allocation) TotalMiB() int64 {
	return a.MiB * int64(a.NumFiles)
}

// Allocate returns the adjusted per-file size in MiB for splitting totalGiB across numFiles.
func Allocate(totalGiB float64, numFiles int) (int64, error) {
	v, err := VolumeFromGiB(totalGiB)
	if err != nil {
		return 0, err
	}
	a, err := AllocateVolume(v, numFiles)
	if err != nil {
		return 0, err
	}
	return a.MiB, nil
}

// AllocateVolume splits v across numFiles and rounds the share up to the alignment rule.
func AllocateVolume(v Volume, numFiles int) (Allocation, error) {
	if numFiles <= 0 {
		return Allocation{}, fmt.Errorf("%w: got %d", ErrInvalidFileCount, numFiles)
	}

	raw := new(big.Rat).Quo(v.MiB(), big.NewRat(int64(numFiles), 1))
	size := RoundShare(raw)

	if !size.IsInt64() || size.Int64() > maxMiB {
		return Allocation{}, fmt.Errorf("%w: %s GiB across %d file(s)", ErrSizeOverflow, v, numFiles)
	}

	return Allocation{NumFiles: numFiles, MiB: size.Int64()}, nil
}

// RoundShare applies the alignment rule to an unrounded share in MiB.
func RoundShare(rawMiB *big.Rat) *big.Int {
	align := big.NewRat(AlignmentMiB, 1)
	if rawMiB.Cmp(align) >= 0 {
		blocks := ceil(new(big.Rat).Quo(rawMiB, align))
		return blocks.Mul(blocks, big.NewInt(AlignmentMiB))
	}
	return ceil(rawMiB)
}

// ceil returns the smallest integer not less than r.
func ceil(r *big.Rat) *big.Int {
	q, m := new(big.Int).DivMod(r.Num(), r.Denom(), new(big.Int))
	if m.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}
