package catalogsvc

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/shopadmin/pkg/catalog"
	apperrors "github.com/yourusername/shopadmin/pkg/errors"
)

func TestFilterArgs(t *testing.T) {
	cats, sizes := filterArgs(catalog.Filter{
		Categories: []string{"Coats", " beds ", "Coats"},
		Sizes:      []string{"XL", ""},
	})
	assert.Equal(t, []string{"beds", "coats"}, cats)
	assert.Equal(t, []string{"xl"}, sizes)

	cats, sizes = filterArgs(catalog.Filter{})
	assert.NotNil(t, cats)
	assert.NotNil(t, sizes)
	assert.Empty(t, cats)
	assert.Empty(t, sizes)
}

func TestInsertArgsEncodesSizes(t *testing.T) {
	args, err := insertArgs(catalog.Product{ID: "x", Name: "Coat", Offer: "10"})
	require.NoError(t, err)
	require.Len(t, args, 10)
	assert.Equal(t, "10", args[5])
	assert.Equal(t, "[]", args[9])

	args, err = insertArgs(catalog.Product{ID: "x", Name: "Coat", Sizes: []catalog.SizeStock{{Size: "S", Stock: 2}}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"size":"S","stock":2}]`, args[9].(string))
}

// TestPostgresStorage runs against a live database when
// SHOPADMIN_TEST_DATABASE_URL is set.
func TestPostgresStorage(t *testing.T) {
	url := os.Getenv("SHOPADMIN_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("SHOPADMIN_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	s, err := NewPostgresStorage(ctx, url)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.EnsureSchema(ctx))
	_, err = s.pool.Exec(ctx, `TRUNCATE products`)
	require.NoError(t, err)

	n, err := s.SeedIfEmpty(ctx, fixture())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	n, err = s.SeedIfEmpty(ctx, fixture())
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Anorak", "Anorak", "Bed", "Raincoat"}, names(all))

	page, err := s.Page(ctx, PageQuery{Page: 1, PageSize: 10, Filter: catalog.Filter{
		Categories: []string{"COATS"},
		Sizes:      []string{"l"},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Anorak"}, names(page.Items))
	assert.Equal(t, 1, page.TotalPages)

	created, err := s.Create(ctx, catalog.Product{Name: "Toy", Price: 2, Offer: "5"})
	require.NoError(t, err)
	updated, err := s.Update(ctx, created.ID, catalog.Product{Name: "Big toy", Sizes: []catalog.SizeStock{{Size: "M", Stock: 3}}})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.TotalStock())

	require.NoError(t, s.Delete(ctx, created.ID))
	_, err = s.Get(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, created.ID), apperrors.ErrNotFound)
}
