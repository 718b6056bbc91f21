package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloats(t *testing.T) {
	tests := []struct {
		name   string
		cursor uint64
		count  int
	}{
		{"single float", 0, 1},
		{"full block", 0, 8},
		{"crosses block boundary", 31, 2},
		{"several blocks", 0, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			floats := Floats("test_server_seed", "test_client_seed", 1, tt.cursor, tt.count)
			require.Len(t, floats, tt.count)
			for i, f := range floats {
				assert.GreaterOrEqualf(t, f, 0.0, "float %d", i)
				assert.Lessf(t, f, 1.0, "float %d", i)
			}
		})
	}
}

func TestFloatsCursorContinuity(t *testing.T) {
	all := Floats("server", "client", 7, 0, 9)

	assert.Equal(t, all[1], Floats("server", "client", 7, 4, 1)[0])
	assert.Equal(t, all[8], Floats("server", "client", 7, 32, 1)[0])
}

func TestFloatsDeterministic(t *testing.T) {
	a := Floats("server", "client", 3, 0, 4)
	b := Floats("server", "client", 3, 0, 4)
	c := Floats("server", "client", 4, 0, 4)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestHashServerSeed(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", HashServerSeed(""))
	assert.Len(t, HashServerSeed("abc"), 64)
}
