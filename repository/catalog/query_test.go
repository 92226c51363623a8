package catalogrepo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// placeholder args arrive with whatever numeric width goqu chose, so compare
// by printed value
func requireArg(t *testing.T, args []interface{}, want string) {
	t.Helper()
	for _, a := range args {
		if fmt.Sprintf("%v", a) == want {
			return
		}
	}
	t.Fatalf("args %v missing %q", args, want)
}

func TestBuildListQuery_NoFilters(t *testing.T) {
	sql, _, err := buildListQuery(Filter{})
	require.NoError(t, err)

	require.NotContains(t, sql, `"c"."slug" =`)
	require.NotContains(t, sql, `"b"."author_id" =`)
	require.NotContains(t, sql, `"b"."year" =`)
	// fallback sort is title ascending
	require.Contains(t, sql, `ORDER BY "b"."title" ASC`)
	require.Contains(t, sql, "LIMIT")
}

func TestBuildListQuery_FiltersAreConjunctive(t *testing.T) {
	sql, args, err := buildListQuery(Filter{CategorySlug: "classic", AuthorID: 7, Year: 1949})
	require.NoError(t, err)

	require.Contains(t, sql, `"c"."slug" =`)
	require.Contains(t, sql, `"b"."author_id" =`)
	require.Contains(t, sql, `"b"."year" =`)
	require.Contains(t, sql, " AND ")
	requireArg(t, args, "classic")
	requireArg(t, args, "7")
	requireArg(t, args, "1949")
}

func TestBuildListQuery_SortKeys(t *testing.T) {
	cases := map[string]string{
		SortCategory: `ORDER BY "c"."name" ASC, "b"."title" ASC`,
		SortAuthor:   `ORDER BY "a"."name" ASC, "b"."title" ASC`,
		SortYear:     `ORDER BY "b"."year" ASC, "b"."title" ASC`,
		SortTitle:    `ORDER BY "b"."title" ASC`,
		"bogus":      `ORDER BY "b"."title" ASC`,
		"":           `ORDER BY "b"."title" ASC`,
	}
	for sort, want := range cases {
		sql, _, err := buildListQuery(Filter{Sort: sort})
		require.NoError(t, err)
		require.Contains(t, sql, want, "sort=%q", sort)
	}
}

func TestBuildListQuery_Pagination(t *testing.T) {
	sql, args, err := buildListQuery(Filter{Page: 3})
	require.NoError(t, err)
	require.Contains(t, sql, "LIMIT")
	require.Contains(t, sql, "OFFSET")
	// page 3 with page size 12 skips 24 rows
	requireArg(t, args, "24")

	// page 0 and page 1 are the same page
	sql0, args0, err := buildListQuery(Filter{})
	require.NoError(t, err)
	sql1, args1, err := buildListQuery(Filter{Page: 1})
	require.NoError(t, err)
	require.Equal(t, sql0, sql1)
	require.Equal(t, args0, args1)
}

func TestBuildCountQuery_SharesFilters(t *testing.T) {
	sql, args, err := buildCountQuery(Filter{CategorySlug: "classic"})
	require.NoError(t, err)
	require.Contains(t, sql, "COUNT(*)")
	require.Contains(t, sql, `"c"."slug" =`)
	require.NotContains(t, sql, "ORDER BY")
	require.NotContains(t, sql, "LIMIT")
	requireArg(t, args, "classic")
	require.Len(t, args, 1)
}
