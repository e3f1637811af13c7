package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNaturalKey(t *testing.T) {
	t.Run("splits trailing digit run with underscore separator", func(t *testing.T) {
		key := ParseNaturalKey("250822_BB_12")
		assert.Equal(t, NaturalKey{Prefix: "250822_BB", Number: 12}, key)
	})

	t.Run("splits trailing digit run with dash separator", func(t *testing.T) {
		key := ParseNaturalKey("LOT-7")
		assert.Equal(t, NaturalKey{Prefix: "LOT", Number: 7}, key)
	})

	t.Run("splits trailing digits without separator", func(t *testing.T) {
		key := ParseNaturalKey("A12")
		assert.Equal(t, NaturalKey{Prefix: "A", Number: 12}, key)
	})

	t.Run("no trailing digits yields number zero", func(t *testing.T) {
		key := ParseNaturalKey("ABC")
		assert.Equal(t, NaturalKey{Prefix: "ABC", Number: 0}, key)
	})

	t.Run("empty string yields empty key", func(t *testing.T) {
		key := ParseNaturalKey("")
		assert.Equal(t, NaturalKey{Prefix: "", Number: 0}, key)
	})

	t.Run("all-digit code keeps empty prefix", func(t *testing.T) {
		key := ParseNaturalKey("123")
		assert.Equal(t, NaturalKey{Prefix: "", Number: 123}, key)
	})

	t.Run("only one separator is consumed", func(t *testing.T) {
		key := ParseNaturalKey("A__12")
		assert.Equal(t, NaturalKey{Prefix: "A_", Number: 12}, key)
	})
}

func TestSortByCode(t *testing.T) {
	t.Run("sorts numerically not lexicographically", func(t *testing.T) {
		codes := []string{"250822_BB_2", "250822_BB_10", "250822_BB_1"}
		SortByCode(codes, func(s string) string { return s })
		assert.Equal(t, []string{"250822_BB_1", "250822_BB_2", "250822_BB_10"}, codes)
	})

	t.Run("orders by prefix before number", func(t *testing.T) {
		codes := []string{"250822_B_3", "250822_A_10", "250822_A_2"}
		SortByCode(codes, func(s string) string { return s })
		assert.Equal(t, []string{"250822_A_2", "250822_A_10", "250822_B_3"}, codes)
	})

	t.Run("works through an accessor over structs", func(t *testing.T) {
		items := []*Item{
			{Code: "240824_A_11"},
			{Code: "240824_A_2"},
		}
		SortByCode(items, func(i *Item) string { return i.Code })
		assert.Equal(t, "240824_A_2", items[0].Code)
		assert.Equal(t, "240824_A_11", items[1].Code)
	})
}

func TestCompareCodes(t *testing.T) {
	assert.Negative(t, CompareCodes("X_1", "X_2"))
	assert.Positive(t, CompareCodes("X_10", "X_9"))
	assert.Zero(t, CompareCodes("X_3", "X_3"))
}
