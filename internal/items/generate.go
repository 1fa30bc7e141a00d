package items

import (
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
)

const radixDigits = "0123456789abcdefghijklmnopqrstuvwxyz"

type generateOptions struct {
	rand   *rand.Rand
	unique bool
}

// GenerateOption configures Generate.
type GenerateOption func(*generateOptions)

// WithSeed makes label generation deterministic.
func WithSeed(seed uint64) GenerateOption {
	return func(o *generateOptions) {
		o.rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand sets the random source used for labels.
func WithRand(r *rand.Rand) GenerateOption {
	return func(o *generateOptions) {
		o.rand = r
	}
}

// WithUniqueLabels regenerates labels that are empty or already taken.
func WithUniqueLabels() GenerateOption {
	return func(o *generateOptions) {
		o.unique = true
	}
}

// Generate returns a store of n inactive items with random labels. A
// negative n yields an empty store.
func Generate(n int, opts ...GenerateOption) *Store {
	o := generateOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rand == nil {
		o.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	n = max(n, 0)
	seen := make(map[string]struct{})
	taken := func(label string) bool {
		_, ok := seen[label]
		return ok || label == ""
	}

	items := make([]*Item, n)
	for i := range n {
		label := RandomLabel(o.rand)
		if o.unique {
			for taken(label) {
				label = RandomLabel(o.rand)
			}
			seen[label] = struct{}{}
		}
		items[i] = &Item{
			ID:    uuid.NewString(),
			Label: label,
		}
	}
	return &Store{items: items}
}

// RandomLabel draws a float in [0, 1) and returns the digits after the
// radix point of its base 36 representation.
func RandomLabel(r *rand.Rand) string {
	return base36Fraction(r.Float64())
}

// base36Fraction writes the shortest base 36 digit string that identifies f
// among neighbouring doubles, rounding the last digit half to even. A carry
// out of the fraction means the value printed as "1", which has no fraction
// digits.
func base36Fraction(f float64) string {
	if f <= 0 || f >= 1 || math.IsNaN(f) {
		return ""
	}
	const radix = 36

	delta := 0.5 * (math.Nextafter(f, 1) - f)
	delta = math.Max(math.Nextafter(0, 1), delta)

	var buf []byte
	fraction := f
	for fraction >= delta {
		fraction *= radix
		delta *= radix
		digit := int(fraction)
		buf = append(buf, radixDigits[digit])
		fraction -= float64(digit)
		if fraction > 0.5 || (fraction == 0.5 && digit&1 == 1) {
			if fraction+delta > 1 {
				return roundUp(buf)
			}
		}
	}
	return string(buf)
}

func roundUp(buf []byte) string {
	for i := len(buf) - 1; i >= 0; i-- {
		digit := indexDigit(buf[i])
		if digit+1 < len(radixDigits) {
			buf[i] = radixDigits[digit+1]
			return string(buf[:i+1])
		}
	}
	return ""
}

func indexDigit(c byte) int {
	if c <= '9' {
		return int(c - '0')
	}
	return int(c-'a') + 10
}
