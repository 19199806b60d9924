// internal/utils/slug_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "home-appliances", Slugify("Home Appliances"))
	assert.Equal(t, "gaming", Slugify("  Gaming!  "))
	assert.Equal(t, "لوازم-خانگی", Slugify("لوازم خانگی"))
	assert.Equal(t, "tv-4k", Slugify("TV & 4K"))
	assert.Equal(t, "category", Slugify("@#$%"))
}
