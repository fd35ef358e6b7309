package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"
	"strings"
)

// avatarColors are the background colors picked for initials avatars.
var avatarColors = []string{
	"ffb84d", "e8590c", "2f9e44", "1971c2", "9c36b5",
	"f08c00", "c2255c", "0c8599", "5f3dc4", "37b24d",
}

// GenerateAvatarURL builds a DiceBear initials avatar for a new user,
// seeded from their name so the same name renders the same letters.
func GenerateAvatarURL(name string) string {
	initials := InitialsFromName(name)
	colorIndex, _ := rand.Int(rand.Reader, big.NewInt(int64(len(avatarColors))))
	color := avatarColors[colorIndex.Int64()]

	return fmt.Sprintf("https://api.dicebear.com/7.x/initials/svg?seed=%s&backgroundColor=%s",
		url.QueryEscape(initials), color)
}

// InitialsFromName extracts up to two initials from a full name.
// Works on runes so Arabic and French names both come out right.
func InitialsFromName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "U"
	}

	first := []rune(fields[0])
	initials := string(first[0])

	if len(fields) > 1 {
		last := []rune(fields[len(fields)-1])
		initials += string(last[0])
	}

	return strings.ToUpper(initials)
}
