package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeededSourceIsDeterministic(t *testing.T) {
	a := New("goblin-ambush")
	b := New("goblin-ambush")

	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Next(), b.Next(), "draw %d diverged", i)
	}
}

func TestSeededSourceRange(t *testing.T) {
	src := New("42")
	for i := 0; i < 10000; i++ {
		v := src.Next()
		if v < 0 || v >= 1 {
			t.Fatalf("draw %d out of range: %v", i, v)
		}
	}
}

func TestUnseededSourceRange(t *testing.T) {
	src := New("")
	for i := 0; i < 1000; i++ {
		v := src.Next()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := New("alpha")
	b := New("beta")

	same := 0
	for i := 0; i < 20; i++ {
		if a.Next() == b.Next() {
			same++
		}
	}
	assert.Less(t, same, 20)
}

func TestHashSeedIsOrderDependent(t *testing.T) {
	assert.NotEqual(t, HashSeed("ab"), HashSeed("ba"))
	assert.Equal(t, HashSeed("ab"), HashSeed("ab"))
}

func TestSeededDistributionOverD6(t *testing.T) {
	src := New("distribution")
	counts := make([]int, 6)
	const trials = 6000
	for i := 0; i < trials; i++ {
		counts[int(src.Next()*6)]++
	}
	for face, n := range counts {
		// Expect ~1000 per face.
		if n < 800 || n > 1200 {
			t.Errorf("face %d drawn %d times", face+1, n)
		}
	}
}
