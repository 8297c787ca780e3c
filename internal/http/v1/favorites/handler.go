package favorites

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/biodata-discovery/internal/platform/auth"
	"github.com/janisto/biodata-discovery/internal/platform/pagination"
	favoritesvc "github.com/janisto/biodata-discovery/internal/service/favorite"
)

const cursorType = "favorite"

// Service is the subset of the favorites service used by these handlers.
type Service interface {
	Add(ctx context.Context, userID string, biodataID int64) (*favoritesvc.Favorite, error)
	Remove(ctx context.Context, userID string, biodataID int64) error
	List(ctx context.Context, userID string) ([]favoritesvc.Favorite, error)
}

// Register registers favorites endpoints.
func Register(api huma.API, svc Service, prefix string) {
	huma.Register(api, huma.Operation{
		OperationID:   "add-favorite",
		Method:        http.MethodPost,
		Path:          "/favorites",
		Summary:       "Bookmark a biodata",
		Description:   "Adds a biodata to the authenticated user's favorites. Bookmarking twice is a conflict.",
		Tags:          []string{"Favorites"},
		DefaultStatus: http.StatusCreated,
		Security:      auth.RequiredSecurity,
	}, func(ctx context.Context, input *AddFavoriteInput) (*AddFavoriteOutput, error) {
		user := auth.UserFromContext(ctx)

		f, err := svc.Add(ctx, user.UID, input.Body.BiodataID)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &AddFavoriteOutput{
			Location: prefix + "/favorites/" + strconv.FormatInt(f.BiodataID, 10),
			Body:     toHTTPFavorite(*f),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-favorites",
		Method:      http.MethodGet,
		Path:        "/favorites",
		Summary:     "List favorites with cursor-based pagination",
		Description: "Returns the authenticated user's favorites, newest first. Use the cursor from the Link header to navigate.",
		Tags:        []string{"Favorites"},
		Security:    auth.RequiredSecurity,
	}, func(ctx context.Context, input *ListFavoritesInput) (*ListFavoritesOutput, error) {
		user := auth.UserFromContext(ctx)

		cursor, err := pagination.DecodeCursor(input.Cursor)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid cursor format")
		}
		if !cursor.Accepts(cursorType) {
			return nil, huma.Error400BadRequest("cursor type mismatch")
		}

		items, err := svc.List(ctx, user.UID)
		if err != nil {
			return nil, mapServiceError(err)
		}
		if cursor.Value != "" && !slices.ContainsFunc(items, func(f favoritesvc.Favorite) bool {
			return favoriteID(f) == cursor.Value
		}) {
			return nil, huma.Error400BadRequest("cursor references unknown favorite")
		}

		result := pagination.Paginate(
			items,
			cursor,
			input.DefaultLimit(),
			cursorType,
			favoriteID,
			prefix+"/favorites",
			url.Values{},
		)

		out := make([]Favorite, 0, len(result.Items))
		for _, f := range result.Items {
			out = append(out, toHTTPFavorite(f))
		}
		return &ListFavoritesOutput{
			Link: result.LinkHeader,
			Body: ListData{Items: out, Total: result.Total},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-favorite",
		Method:      http.MethodGet,
		Path:        "/favorites/{biodataId}",
		Summary:     "Check a favorite",
		Description: "Returns 200 when the biodata is bookmarked by the authenticated user, 404 otherwise.",
		Tags:        []string{"Favorites"},
		Security:    auth.RequiredSecurity,
	}, func(ctx context.Context, input *FavoriteIDInput) (*FavoriteOutput, error) {
		user := auth.UserFromContext(ctx)

		items, err := svc.List(ctx, user.UID)
		if err != nil {
			return nil, mapServiceError(err)
		}
		i := slices.IndexFunc(items, func(f favoritesvc.Favorite) bool { return f.BiodataID == input.BiodataID })
		if i < 0 {
			return nil, mapServiceError(favoritesvc.ErrNotFound)
		}
		return &FavoriteOutput{Body: toHTTPFavorite(items[i])}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "remove-favorite",
		Method:        http.MethodDelete,
		Path:          "/favorites/{biodataId}",
		Summary:       "Remove a favorite",
		Tags:          []string{"Favorites"},
		DefaultStatus: http.StatusNoContent,
		Security:      auth.RequiredSecurity,
	}, func(ctx context.Context, input *FavoriteIDInput) (*struct{}, error) {
		user := auth.UserFromContext(ctx)

		if err := svc.Remove(ctx, user.UID, input.BiodataID); err != nil {
			return nil, mapServiceError(err)
		}
		return nil, nil
	})
}

func favoriteID(f favoritesvc.Favorite) string {
	return strconv.FormatInt(f.BiodataID, 10)
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, favoritesvc.ErrNotFound):
		return huma.Error404NotFound("favorite not found")
	case errors.Is(err, favoritesvc.ErrBiodataNotFound):
		return huma.Error404NotFound("biodata not found")
	case errors.Is(err, favoritesvc.ErrAlreadyExists):
		return huma.Error409Conflict("biodata already in favorites")
	default:
		return huma.Error500InternalServerError("internal error")
	}
}
