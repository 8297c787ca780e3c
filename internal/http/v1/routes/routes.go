package routes

import (
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/biodata-discovery/internal/http/v1/admin"
	"github.com/janisto/biodata-discovery/internal/http/v1/biodata"
	"github.com/janisto/biodata-discovery/internal/http/v1/favorites"
	"github.com/janisto/biodata-discovery/internal/http/v1/locations"
	"github.com/janisto/biodata-discovery/internal/platform/auth"
	biodatasvc "github.com/janisto/biodata-discovery/internal/service/biodata"
	favoritesvc "github.com/janisto/biodata-discovery/internal/service/favorite"
	"github.com/janisto/biodata-discovery/internal/service/location"
)

// Register wires all HTTP routes into the provided API router.
func Register(
	api huma.API,
	verifier auth.Verifier,
	biodataService *biodatasvc.Service,
	favoriteService *favoritesvc.Service,
	tree *location.Tree,
) {
	prefix := apiPrefix(api)

	// Apply auth middleware for protected endpoints
	api.UseMiddleware(auth.NewAuthMiddleware(api, verifier))

	biodata.Register(api, biodataService, prefix)
	admin.Register(api, biodataService, prefix)
	favorites.Register(api, favoriteService, prefix)
	locations.Register(api, tree)
}

func apiPrefix(api huma.API) string {
	for _, s := range api.OpenAPI().Servers {
		if u, err := url.Parse(s.URL); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return ""
}
