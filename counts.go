package qrng

import (
	"fmt"
	"strconv"
	"strings"
)

/*
Counts maps a fixed-width bitstring to the number of shots that produced it.
A backend returning counts guarantees the values sum to the requested shot
count; Runner verifies this before trusting the distribution.
*/
type Counts map[string]uint64

// Shots returns the total number of shots the counts account for.
func (c Counts) Shots() uint64 {
	var total uint64
	for _, n := range c {
		total += n
	}
	return total
}

/*
Values reinterprets every bitstring key as an unsigned integer. Keys whose
length differs from the register width, or that contain anything but binary
digits, are backend contract violations and fail the whole conversion.
*/
func (c Counts) Values(width int) (map[uint64]uint64, error) {
	values := make(map[uint64]uint64, len(c))
	for bs, n := range c {
		if len(bs) != width {
			return nil, fmt.Errorf("bitstring %q does not match register width %d", bs, width)
		}
		v, err := strconv.ParseUint(bs, 2, 64)
		if err != nil {
			return nil, fmt.Errorf("bitstring %q is not binary: %w", bs, err)
		}
		values[v] += n
	}
	return values, nil
}

// Bitstring renders a value as a fixed-width binary key, most significant
// bit first, matching the backend wire format.
func Bitstring(v uint64, width int) string {
	bs := strconv.FormatUint(v, 2)
	if len(bs) < width {
		bs = strings.Repeat("0", width-len(bs)) + bs
	}
	return bs
}
