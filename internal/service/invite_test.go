package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInviteCodes(t *testing.T) {
	codes, err := GenerateInviteCodes(3)
	require.NoError(t, err)
	require.Len(t, codes, 3)

	seen := make(map[string]struct{})
	for _, code := range codes {
		assert.Len(t, code, InviteCodeLength)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(inviteAlphabet, c), "character %q outside alphabet", c)
		}
		_, dup := seen[code]
		assert.False(t, dup, "duplicate code in batch")
		seen[code] = struct{}{}
	}
}

func TestGenerateInviteCodesZero(t *testing.T) {
	codes, err := GenerateInviteCodes(0)
	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestInviteAlphabetExcludesConfusables(t *testing.T) {
	for _, c := range "0O1IlL5S" {
		assert.False(t, strings.ContainsRune(inviteAlphabet, c), "alphabet must not contain %q", c)
	}
}
