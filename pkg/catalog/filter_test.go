package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterQueryRoundTrip(t *testing.T) {
	f := Filter{Categories: []string{"coats", " ", "beds", "coats"}, Sizes: []string{"M", "S"}}
	q := f.Query(3)

	assert.Equal(t, "3", q.Get(ParamPage))
	assert.Equal(t, []string{"beds", "coats"}, q[ParamCategory])
	assert.Equal(t, []string{"M", "S"}, q[ParamSize])

	page, parsed := ParseQuery(q)
	assert.Equal(t, 3, page)
	assert.True(t, parsed.Equal(f))
}

func TestParseQueryDefaultsPage(t *testing.T) {
	page, f := ParseQuery(nil)
	assert.Equal(t, 1, page)
	assert.True(t, f.IsZero())

	page, _ = ParseQuery(map[string][]string{ParamPage: {"-2"}})
	assert.Equal(t, 1, page)
}

func TestFilterEqualIsSetComparison(t *testing.T) {
	a := Filter{Categories: []string{"b", "a"}}
	b := Filter{Categories: []string{"a", "b", "a"}}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(Filter{}))
	assert.True(t, Filter{}.Equal(Filter{Sizes: []string{""}}))
}

func TestFilterMatches(t *testing.T) {
	p := Product{Category: "Coats", Sizes: []SizeStock{{Size: "S"}, {Size: "M"}}}

	assert.True(t, Filter{}.Matches(p))
	assert.True(t, Filter{Categories: []string{"coats"}}.Matches(p))
	assert.False(t, Filter{Categories: []string{"beds"}}.Matches(p))
	assert.True(t, Filter{Sizes: []string{"XL", "m"}}.Matches(p))
	assert.False(t, Filter{Sizes: []string{"XL"}}.Matches(p))
	assert.False(t, Filter{Categories: []string{"coats"}, Sizes: []string{"XL"}}.Matches(p))
}
