package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash_Deterministic(t *testing.T) {
	assert.Equal(t, Hash("abc"), Hash("abc"))
	assert.NotEqual(t, Hash("abc"), Hash("abd"))
}

func TestHash_HexSHA256Length(t *testing.T) {
	assert.Len(t, Hash("any token value"), 64)
}
