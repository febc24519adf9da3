package pagination

import (
	"net/url"
	"testing"

	"github.com/cmlabs-hris/hrms-portal/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  Query
	}{
		{"defaults", "", Query{Skip: 0, Limit: 10}},
		{"skip and limit", "skip=40&limit=20", Query{Skip: 40, Limit: 20}},
		{"search trimmed", "search=%20jane%20", Query{Limit: 10, Search: "jane"}},
		{"page and page_size", "page=3&page_size=25", Query{Skip: 75, Limit: 25}},
		{"skip wins over page", "skip=5&page=9", Query{Skip: 5, Limit: 10}},
		{"max limit", "limit=100", Query{Limit: 100}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			values, err := url.ParseQuery(c.query)
			require.NoError(t, err)
			got, err := ParseQuery(values, Defaults{})
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestParseQuery_Invalid(t *testing.T) {
	cases := []struct {
		query string
		field string
	}{
		{"skip=-1", "skip"},
		{"skip=abc", "skip"},
		{"limit=0", "limit"},
		{"limit=101", "limit"},
		{"limit=x", "limit"},
		{"page=-2", "page"},
		{"page_size=-5", "page_size"},
	}
	for _, c := range cases {
		t.Run(c.query, func(t *testing.T) {
			values, _ := url.ParseQuery(c.query)
			_, err := ParseQuery(values, Defaults{})
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.True(t, verrs.Has(c.field), verrs.Error())
		})
	}
}

func TestParseQuery_CustomDefaults(t *testing.T) {
	got, err := ParseQuery(url.Values{}, Defaults{Limit: 25, MaxLimit: 50})
	require.NoError(t, err)
	assert.Equal(t, 25, got.Limit)

	_, err = ParseQuery(url.Values{"limit": {"60"}}, Defaults{Limit: 25, MaxLimit: 50})
	assert.Error(t, err)
}

func TestQuery_ValuesRoundTrip(t *testing.T) {
	q := Query{Skip: 30, Limit: 15, Search: "ops"}
	got, err := ParseQuery(q.Values(), Defaults{})
	require.NoError(t, err)
	assert.Equal(t, q, got)
	assert.Equal(t, 2, got.PageIndex())
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Query{Skip: 20, Limit: 10}, 45)
	assert.Equal(t, Meta{Page: 3, Limit: 10, Skip: 20, TotalItems: 45, TotalPages: 5}, meta)

	empty := NewMeta(Query{Limit: 10}, 0)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 0, empty.TotalPages)
}
