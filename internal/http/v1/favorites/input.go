package favorites

import "github.com/janisto/biodata-discovery/internal/platform/pagination"

// AddFavoriteInput for POST /favorites
type AddFavoriteInput struct {
	Body struct {
		BiodataID int64 `json:"biodataId" minimum:"1" required:"true" doc:"Biodata number to bookmark" example:"42"`
	}
}

// ListFavoritesInput for GET /favorites
type ListFavoritesInput struct {
	pagination.Params
}

// FavoriteIDInput addresses one bookmark by biodata number.
type FavoriteIDInput struct {
	BiodataID int64 `path:"biodataId" minimum:"1" doc:"Bookmarked biodata number" example:"42"`
}
