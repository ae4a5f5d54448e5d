package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowIDs(t *testing.T) {
	auth := AllowIDs(1742433244, 5)

	assert.True(t, auth(1742433244))
	assert.True(t, auth(5))
	assert.False(t, auth(6))
	assert.False(t, AllowIDs()(1))
}
