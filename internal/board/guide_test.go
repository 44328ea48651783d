package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuideNavigation(t *testing.T) {
	var g Guide

	assert.Equal(t, "DEFINE", g.Current().Title)
	assert.Equal(t, "01 / 03", g.Position())
	assert.False(t, g.Prev())

	assert.True(t, g.Next())
	assert.Equal(t, "EXECUTE", g.Current().Title)

	assert.True(t, g.Next())
	assert.True(t, g.IsLast())
	assert.Equal(t, "Consistency compounds. Don't break the chain.", g.Current().Body)
	assert.Equal(t, "03 / 03", g.Position())
	assert.False(t, g.Next())

	assert.True(t, g.Prev())
	assert.Equal(t, "02 / 03", g.Position())
	assert.Len(t, g.Slides(), 3)
}
