package service

import (
	"crypto/rand"
	"fmt"
)

// inviteAlphabet omits characters that read ambiguously on a printed crew
// sheet: 0/O, 1/I/L and 5/S.
const inviteAlphabet = "ABCDEFGHJKMNPQRTUVWXYZ2346789"

// InviteCodeLength is the fixed length of a crew invite code.
const InviteCodeLength = 12

// GenerateInviteCodes produces n single-use invite codes. Codes are drawn
// randomly; a collision inside the batch is regenerated, collisions across
// boats are statistically ignored (29^12 keyspace) and harmless anyway since
// redemption is scoped to one boat.
func GenerateInviteCodes(n int) ([]string, error) {
	codes := make([]string, 0, n)
	seen := make(map[string]struct{}, n)

	for len(codes) < n {
		code, err := generateInviteCode()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}

	return codes, nil
}

func generateInviteCode() (string, error) {
	buf := make([]byte, InviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes for invite code: %w", err)
	}

	for i, b := range buf {
		buf[i] = inviteAlphabet[int(b)%len(inviteAlphabet)]
	}
	return string(buf), nil
}
