package favorites

import (
	"github.com/janisto/biodata-discovery/internal/platform/timeutil"
	favoritesvc "github.com/janisto/biodata-discovery/internal/service/favorite"
)

// Favorite is a bookmarked biodata.
type Favorite struct {
	BiodataID int64         `json:"biodataId" doc:"Bookmarked biodata number" example:"42"`
	CreatedAt timeutil.Time `json:"createdAt" doc:"When it was bookmarked"    example:"2024-01-15T10:30:00.000Z"`
}

func toHTTPFavorite(f favoritesvc.Favorite) Favorite {
	return Favorite{
		BiodataID: f.BiodataID,
		CreatedAt: timeutil.NewTime(f.CreatedAt),
	}
}
