package gacha

import (
	"math"
	"strconv"
	"strings"
)

// RateTolerance is the relative tolerance used whenever two drop rates are compared
const RateTolerance = 1e-5

// RatesEqual reports whether two drop rates are equal within RateTolerance.
// Every bucket match goes through this function.
func RatesEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= RateTolerance*math.Max(math.Abs(a), math.Abs(b))
}

// ValidRate reports whether rate is a probability in [0, 1]
func ValidRate(rate float64) bool {
	return !math.IsNaN(rate) && rate >= 0 && rate <= 1
}

// FormatRate renders a rate the way it is typed on the command line, always
// keeping a decimal point (1 -> "1.0").
func FormatRate(rate float64) string {
	s := strconv.FormatFloat(rate, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// TotalRate sums the rates of every bucket in the pool's loot table
func (p *Pool) TotalRate() float64 {
	total := 0.0
	for _, bucket := range p.LootTable {
		total += bucket.Rate
	}
	return total
}

// TotalRate sums the bucket rates of the pool with the given code. Unknown
// pools total 0.
func (db *Database) TotalRate(code string) float64 {
	_, pool, ok := db.PoolByCode(code)
	if !ok {
		return 0
	}
	return pool.TotalRate()
}

// ValidateRate returns the total rate of the pool and whether it is close to
// either 0 (nothing added yet) or 1 (complete).
func (db *Database) ValidateRate(code string) (float64, bool) {
	total := db.TotalRate(code)
	return total, RatesEqual(total, 0) || RatesEqual(total, 1)
}
