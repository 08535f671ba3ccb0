package tracking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCodeShape(t *testing.T) {
	code := NewCode()

	assert.True(t, strings.HasPrefix(code, Prefix))
	assert.Len(t, code, len(Prefix)+8)
	for _, c := range code[len(Prefix):] {
		assert.Contains(t, "0123456789ABCDEF", string(c))
	}
}

func TestNewCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[NewCode()] = true
	}
	// 100 draws from a 32-bit space should not collide.
	assert.Len(t, seen, 100)
}
