package store

import (
	"context"

	"github.com/yourusername/shopadmin/pkg/catalog"
	"github.com/yourusername/shopadmin/pkg/client"
)

// FetchProducts loads one page into the store. The returned error is the
// fetch failure, or nil when the page was fetched even if a newer fetch has
// since superseded it.
func FetchProducts(ctx context.Context, s *Store, api client.ProductAPI, page int, filter catalog.Filter) error {
	filter = filter.Normalize()
	seq := s.BeginFetch(page, filter)

	result, err := api.ListPage(ctx, page, filter)
	if err != nil {
		s.Dispatch(FetchFailed{Seq: seq, Err: err})
		return err
	}
	if result.CurrentPage == 0 {
		result.CurrentPage = page
	}
	s.Dispatch(FetchSucceeded{Seq: seq, Result: result})
	return nil
}

// DeleteProduct deletes a product remotely and drops it from the loaded page.
func DeleteProduct(ctx context.Context, s *Store, api client.ProductAPI, id string) error {
	if err := api.Delete(ctx, id); err != nil {
		return err
	}
	s.Dispatch(ProductDeleted{ID: id})
	return nil
}

// UpdateProduct sends the full product and replaces the loaded copy with the
// server's answer.
func UpdateProduct(ctx context.Context, s *Store, api client.ProductAPI, id string, p catalog.Product) (catalog.Product, error) {
	updated, err := api.Update(ctx, id, p)
	if err != nil {
		return catalog.Product{}, err
	}
	if updated.ID == "" {
		updated.ID = id
	}
	s.Dispatch(ProductUpdated{Product: updated})
	return updated, nil
}
