package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEcoPointsFor(t *testing.T) {
	cases := []struct {
		category string
		want     int
	}{
		{CategoryTreePlanting, 50},
		{CategoryRecycling, 30},
		{CategoryEnergySaving, 40},
		{CategoryWaterConservation, 35},
		{CategoryOther, 20},
		{"solar-farming", 20},
		{"", 20},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, EcoPointsFor(tc.category), "category %q", tc.category)
	}
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory(CategoryRecycling))
	assert.False(t, ValidCategory("all"))
	assert.False(t, ValidCategory(""))
}

func TestPostJSONNeverExposesLikedBy(t *testing.T) {
	post := Post{Likes: 2, LikedBy: []string{"u1", "10.0.0.1"}}

	raw, err := json.Marshal(post)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.NotContains(t, decoded, "likedBy")
	assert.EqualValues(t, 2, decoded["likes"])
}
