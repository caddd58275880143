package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstCompatiblePicksFirstInHostOrder(t *testing.T) {
	releases := []Release{
		{ID: 3, DisplayName: "3.0", GameVersionTypeIDs: []int{517}},
		{ID: 2, DisplayName: "2.0", GameVersionTypeIDs: []int{517, 67408}},
		{ID: 1, DisplayName: "1.0", GameVersionTypeIDs: []int{67408}},
	}

	got := FirstCompatible(releases, 67408)
	assert.NotNil(t, got)
	assert.Equal(t, 2, got.ID, "first compatible release in host order wins")

	assert.Nil(t, FirstCompatible(releases, 73713), "no release carries this flavor")
	assert.Nil(t, FirstCompatible(nil, 67408))
}

func TestReleaseVersionStripsZipSuffix(t *testing.T) {
	cases := map[string]string{
		"WeakAuras-5.9.1.zip": "WeakAuras-5.9.1",
		"WeakAuras-5.9.1.ZIP": "WeakAuras-5.9.1",
		"5.9.1":               "5.9.1",
		"":                    "",
	}
	for in, want := range cases {
		r := Release{DisplayName: in}
		assert.Equal(t, want, r.Version())
	}
}

func TestIsSkinFolder(t *testing.T) {
	assert.True(t, IsSkinFolder("ElvUI"))
	assert.True(t, IsSkinFolder("ElvUI_Options"))
	assert.False(t, IsSkinFolder("ElvUI_TotalRP"))
	assert.False(t, IsSkinFolder("WeakAuras"))
}
