package experiment

import (
	"fmt"
	"testing"

	"github.com/focustoday/focuspulse/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssign_Deterministic(t *testing.T) {
	ids := []string{"user-1", "user-2", "a", "b", uuid.NewString()}

	for _, id := range ids {
		first := Assign(id)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, Assign(id), "assignment changed for %q", id)
		}
	}
}

func TestAssign_EmptyUserIsControl(t *testing.T) {
	assert.Equal(t, domain.GroupControl, Assign(""))
	assert.False(t, IsExperimental(""))
}

func TestAssign_ValidGroup(t *testing.T) {
	for i := 0; i < 100; i++ {
		group := Assign(fmt.Sprintf("user-%d", i))
		require.True(t, group.Valid())
	}
}

func TestAssign_RoughlyEvenSplit(t *testing.T) {
	const samples = 10000

	experimental := 0
	for i := 0; i < samples; i++ {
		if IsExperimental(uuid.NewString()) {
			experimental++
		}
	}

	// 10k samples, expect 50% ± 5 points.
	ratio := float64(experimental) / samples
	assert.InDelta(t, 0.5, ratio, 0.05, "split too skewed: %d/%d experimental", experimental, samples)
}

func TestIsExperimental_MatchesAssign(t *testing.T) {
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("user-%d", i)
		assert.Equal(t, Assign(id) == domain.GroupExperimental, IsExperimental(id))
	}
}
