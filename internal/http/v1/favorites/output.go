package favorites

// AddFavoriteOutput for POST /favorites (201 Created)
type AddFavoriteOutput struct {
	Location string `header:"Location" doc:"URL of the bookmark"`
	Body     Favorite
}

// ListData is the response body containing paginated favorites.
type ListData struct {
	Items []Favorite `json:"items" doc:"Favorites, newest first"`
	Total int        `json:"total" doc:"Total count of favorites" example:"3"`
}

// ListFavoritesOutput is the response wrapper with pagination Link header.
type ListFavoritesOutput struct {
	Link string `header:"Link" doc:"RFC 8288 pagination links"`
	Body ListData
}

// FavoriteOutput wraps a single favorite.
type FavoriteOutput struct {
	Body Favorite
}
