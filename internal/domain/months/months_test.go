package months_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/udeservering-api/internal/domain/months"
)

func TestParse(t *testing.T) {
	cases := map[string]time.Month{
		"Januar":    time.January,
		"maj":       time.May,
		"  JULI ":   time.July,
		"Juli 2025": time.July,
		"December":  time.December,
	}
	for in, want := range cases {
		got, ok := months.Parse(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "July", "13", "Mai"} {
		_, ok := months.Parse(bad)
		assert.False(t, ok, bad)
	}
}

func TestFromMonth(t *testing.T) {
	assert.Equal(t, []string{"Oktober", "November", "December"}, months.FromMonth(time.October))
	assert.Len(t, months.FromMonth(time.January), 12)
	assert.Equal(t, "Marts", months.Name(time.March))
	assert.Equal(t, "", months.Name(0))
}
