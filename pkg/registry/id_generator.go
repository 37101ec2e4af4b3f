package registry

import (
	"github.com/budgetwise/budgetwise/internal/utils"
)

// IdGenerator hands out ids derived from a high-resolution clock. Ids are strictly increasing
// for the lifetime of the generator even when the clock stands still or goes backwards.
type IdGenerator struct {
	clock utils.Clock
	last  int64
}

func NewIdGenerator(clock utils.Clock) *IdGenerator {
	return &IdGenerator{clock: clock}
}

// Next returns an id greater than every id returned before for which taken reports false.
func (g *IdGenerator) Next(taken func(id int64) bool) int64 {
	id := g.clock.Now().UnixNano()
	if id <= g.last {
		id = g.last + 1
	}
	for taken != nil && taken(id) {
		id++
	}
	g.last = id
	return id
}
