package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		expected bool
	}{
		{
			name:     "defaults enable forward delete",
			registry: New(nil),
			flag:     FlagForwardDelete,
			expected: true,
		},
		{
			name:     "defaults enable clear on exit",
			registry: New(map[string]bool{}),
			flag:     FlagClearOnExit,
			expected: true,
		},
		{
			name:     "override disables a flag",
			registry: New(map[string]bool{FlagForwardDelete: false}),
			flag:     FlagForwardDelete,
			expected: false,
		},
		{
			name:     "override leaves other flags alone",
			registry: New(map[string]bool{FlagForwardDelete: false}),
			flag:     FlagClearOnExit,
			expected: true,
		},
		{
			name:     "unknown flag returns false",
			registry: New(map[string]bool{"made-up": true}),
			flag:     "made-up",
			expected: false,
		},
		{
			name:     "nil registry returns false",
			registry: nil,
			flag:     FlagForwardDelete,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.registry.Enabled(tt.flag))
		})
	}
}

func TestRegistry_Names(t *testing.T) {
	r := New(map[string]bool{"made-up": true})
	require.Equal(t, []string{FlagClearOnExit, FlagForwardDelete}, r.Names())

	var nilRegistry *Registry
	require.Nil(t, nilRegistry.Names())
}

func TestRegistry_All_ReturnsCopy(t *testing.T) {
	r := New(nil)

	all := r.All()
	all[FlagForwardDelete] = false
	all["new-flag"] = true

	require.True(t, r.Enabled(FlagForwardDelete), "registry should not be affected by copy mutation")
	require.Equal(t, Defaults(), r.All())
}

func TestRegistry_All_Nil(t *testing.T) {
	var r *Registry
	require.Equal(t, map[string]bool{}, r.All())
}
