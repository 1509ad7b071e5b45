package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAll(t *testing.T) {
	all := All()

	assert.Len(t, all, MaxMode-MinMode+1)
	for i, p := range all {
		assert.Equal(t, i, p.ID)
		assert.NotEmpty(t, p.Name)
		assert.Positive(t, p.Speed)
	}

	all[0].Name = "changed"
	assert.Equal(t, "Sleepy Voice", All()[0].Name)
}

func TestValid(t *testing.T) {
	tests := []struct {
		mode int
		want bool
	}{
		{-1, false},
		{0, true},
		{4, true},
		{8, true},
		{9, false},
		{12, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Valid(tt.mode), "mode %d", tt.mode)
	}
}

func TestGet(t *testing.T) {
	p, ok := Get(1)
	assert.True(t, ok)
	assert.Equal(t, "Chipmunk Voice", p.Name)
	assert.Equal(t, 1.7, p.Speed)

	_, ok = Get(MaxMode + 1)
	assert.False(t, ok)
}
