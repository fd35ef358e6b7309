package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialsFromName(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Fatimetou Mint Ahmed", "FA"},
		{"Sidi", "S"},
		{"mohamed ould cheikh", "MC"},
		{"  spaced   name  ", "SN"},
		{"", "U"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, InitialsFromName(tc.name), "name %q", tc.name)
	}
}

func TestGenerateAvatarURL(t *testing.T) {
	url := GenerateAvatarURL("Aicha Diallo")

	assert.True(t, strings.HasPrefix(url, "https://api.dicebear.com/7.x/initials/svg?seed=AD&backgroundColor="))
}

func TestGenerateAvatarURLEscapesSeed(t *testing.T) {
	url := GenerateAvatarURL("محمد ولد أحمد")

	assert.NotContains(t, url, " ")
	assert.Contains(t, url, "seed=")
}
