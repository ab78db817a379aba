package game

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenIDs() []string {
	ids := make([]string, 10)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%d", i+1)
	}
	return ids
}

func TestSeededShuffleIsDeterministic(t *testing.T) {
	first := tenIDs()
	second := tenIDs()

	ShuffleIDs(first, NewSeededRNG(42))
	ShuffleIDs(second, NewSeededRNG(42))

	assert.Equal(t, first, second)
}

func TestDifferentSeedsProduceDifferentOrders(t *testing.T) {
	orders := map[string]bool{}
	for seed := uint64(0); seed < 10; seed++ {
		ids := tenIDs()
		ShuffleIDs(ids, NewSeededRNG(seed))
		orders[fmt.Sprint(ids)] = true
	}
	// Ten identical permutations of ten elements would mean the seed is
	// being ignored.
	assert.Greater(t, len(orders), 1)
}

func TestShuffleIsPermutation(t *testing.T) {
	ids := tenIDs()
	ShuffleIDs(ids, NewSeededRNG(7))

	sorted := append([]string{}, ids...)
	sort.Strings(sorted)
	assert.Equal(t, tenIDs(), sorted)
}

func TestShuffleHandlesSmallSlices(t *testing.T) {
	var empty []string
	ShuffleIDs(empty, NewSeededRNG(1))
	assert.Empty(t, empty)

	one := []string{"p1"}
	ShuffleIDs(one, NewSeededRNG(1))
	assert.Equal(t, []string{"p1"}, one)
}

func TestEntropyRNGStillPermutes(t *testing.T) {
	ids := tenIDs()
	ShuffleIDs(ids, NewEntropyRNG())

	sorted := append([]string{}, ids...)
	sort.Strings(sorted)
	require.Equal(t, tenIDs(), sorted)
}
