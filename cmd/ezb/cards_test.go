package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLast4(t *testing.T) {
	assert.NoError(t, validateLast4("4242"))
	assert.NoError(t, validateLast4("0000"))
	assert.Error(t, validateLast4("424"))
	assert.Error(t, validateLast4("42424"))
	assert.Error(t, validateLast4("42ab"))
	assert.Error(t, validateLast4(""))
}
