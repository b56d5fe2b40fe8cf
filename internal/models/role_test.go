package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"Admin", "Member", "User"} {
		r, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, Role(s), r)
	}

	for _, s := range []string{"", "admin", "ADMIN", "Owner", "member "} {
		_, err := ParseRole(s)
		assert.Error(t, err, s)
	}
}
