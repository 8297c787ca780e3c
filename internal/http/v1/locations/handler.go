package locations

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/biodata-discovery/internal/service/location"
)

// Register registers location lookup endpoints backed by tree.
func Register(api huma.API, tree *location.Tree) {
	huma.Register(api, huma.Operation{
		OperationID: "list-location-options",
		Method:      http.MethodGet,
		Path:        "/locations",
		Summary:     "List location selectors",
		Description: "Returns every location selector accepted by the search endpoint, including the All Divisions, " +
			"All Districts and All Upazilas wildcards.",
		Tags: []string{"Locations"},
	}, func(_ context.Context, _ *OptionsInput) (*OptionsOutput, error) {
		out := &OptionsOutput{}
		out.Body.Country = tree.Country()
		out.Body.Options = tree.Options()
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-divisions",
		Method:      http.MethodGet,
		Path:        "/locations/divisions",
		Summary:     "List divisions",
		Tags:        []string{"Locations"},
	}, func(_ context.Context, _ *OptionsInput) (*NamesOutput, error) {
		return names(tree.Divisions()), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-districts",
		Method:      http.MethodGet,
		Path:        "/locations/divisions/{division}/districts",
		Summary:     "List districts of a division",
		Tags:        []string{"Locations"},
	}, func(_ context.Context, input *DistrictsInput) (*NamesOutput, error) {
		districts := tree.Districts(input.Division)
		if districts == nil {
			return nil, huma.Error404NotFound("division not found")
		}
		return names(districts), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-upazilas",
		Method:      http.MethodGet,
		Path:        "/locations/divisions/{division}/districts/{district}/upazilas",
		Summary:     "List upazilas of a district",
		Description: "Districts without upazila data return an empty list.",
		Tags:        []string{"Locations"},
	}, func(_ context.Context, input *UpazilasInput) (*NamesOutput, error) {
		if tree.Districts(input.Division) == nil {
			return nil, huma.Error404NotFound("division not found")
		}
		if !slices.ContainsFunc(tree.Districts(input.Division), func(d string) bool {
			return strings.EqualFold(d, input.District)
		}) {
			return nil, huma.Error404NotFound("district not found")
		}
		return names(tree.Upazilas(input.Division, input.District)), nil
	})
}

func names(items []string) *NamesOutput {
	out := &NamesOutput{}
	out.Body.Items = append([]string{}, items...)
	return out
}
