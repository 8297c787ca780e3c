package biodata

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/biodata-discovery/internal/platform/auth"
	"github.com/janisto/biodata-discovery/internal/platform/pagination"
	biodatasvc "github.com/janisto/biodata-discovery/internal/service/biodata"
)

// Service is the subset of the biodata service used by these handlers.
type Service interface {
	ParseSearch(raw biodatasvc.RawSearchFilters) biodatasvc.SearchFilters
	Search(ctx context.Context, f biodatasvc.SearchFilters) (biodatasvc.SearchResult, error)
	Get(ctx context.Context, id int64) (*biodatasvc.Biodata, error)
	GetPublic(ctx context.Context, id int64, actor biodatasvc.Actor) (*biodatasvc.Biodata, error)
	GetForOwner(ctx context.Context, ownerID string) (*biodatasvc.Biodata, error)
	Save(ctx context.Context, ownerID string, p biodatasvc.SaveParams) (*biodatasvc.Biodata, bool, error)
	DeleteOwn(ctx context.Context, ownerID string) error
	ToggleVisibility(ctx context.Context, ownerID string) (biodatasvc.ToggleResult, error)
	RecordView(ctx context.Context, req biodatasvc.ViewRequest) (biodatasvc.ViewResult, error)
	ViewCount(ctx context.Context, id int64) (int64, error)
	ViewStats(ctx context.Context, id int64) (biodatasvc.ViewStats, error)
}

// Register registers biodata endpoints.
func Register(api huma.API, svc Service, prefix string) {
	huma.Register(api, huma.Operation{
		OperationID: "search-biodatas",
		Method:      http.MethodGet,
		Path:        "/biodatas",
		Summary:     "Search biodatas",
		Description: "Returns approved, active biodatas matching the filters, newest first, one page at a time.",
		Tags:        []string{"Biodatas"},
	}, func(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
		filters := svc.ParseSearch(biodatasvc.RawSearchFilters{
			Gender:        input.Gender,
			MaritalStatus: input.MaritalStatus,
			Location:      input.Location,
			BiodataNumber: input.BiodataNumber,
			AgeMin:        input.AgeMin,
			AgeMax:        input.AgeMax,
			Page:          input.Page,
			Limit:         input.Limit,
		})

		result, err := svc.Search(ctx, filters)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &SearchOutput{
			Link: pagination.BuildPageLinkHeader(prefix+"/biodatas", searchQuery(input), result.Pagination),
			Body: SearchData{
				Data:       toHTTPList(result.Data, time.Now()),
				Pagination: result.Pagination,
			},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-my-biodata",
		Method:      http.MethodGet,
		Path:        "/biodatas/me",
		Summary:     "Get current user's biodata",
		Description: "Retrieves the authenticated user's biodata regardless of its status.",
		Tags:        []string{"Biodatas"},
		Security:    auth.RequiredSecurity,
	}, func(ctx context.Context, _ *MyBiodataInput) (*BiodataOutput, error) {
		user := auth.UserFromContext(ctx)

		b, err := svc.GetForOwner(ctx, user.UID)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &BiodataOutput{Body: toHTTPBiodata(b, time.Now())}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "save-my-biodata",
		Method:      http.MethodPut,
		Path:        "/biodatas/me",
		Summary:     "Create or update current user's biodata",
		Description: "Creates the biodata on first save (pending approval, visible) or replaces the owner-editable fields. " +
			"Approval status, visibility and view count are never changed here.",
		Tags:     []string{"Biodatas"},
		Security: auth.RequiredSecurity,
	}, func(ctx context.Context, input *SaveBiodataInput) (*SaveBiodataOutput, error) {
		user := auth.UserFromContext(ctx)

		var birthDate *time.Time
		if input.Body.BirthDate != nil {
			d := input.Body.BirthDate.Time
			birthDate = &d
		}
		b, created, err := svc.Save(ctx, user.UID, biodatasvc.SaveParams{
			Gender:                 input.Body.Gender,
			MaritalStatus:          input.Body.MaritalStatus,
			FullName:               input.Body.FullName,
			BirthDate:              birthDate,
			PermanentAddress:       fromHTTPAddress(input.Body.PermanentAddress),
			PresentAddress:         fromHTTPAddress(input.Body.PresentAddress),
			PresentSameAsPermanent: input.Body.PresentSameAsPermanent,
		})
		if err != nil {
			return nil, mapServiceError(err)
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		return &SaveBiodataOutput{
			Status:   status,
			Location: prefix + "/biodatas/" + strconv.FormatInt(b.ID, 10),
			Body:     toHTTPBiodata(b, time.Now()),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-my-biodata",
		Method:        http.MethodDelete,
		Path:          "/biodatas/me",
		Summary:       "Delete current user's biodata",
		Description:   "Permanently deletes the authenticated user's biodata with its views and favorites.",
		Tags:          []string{"Biodatas"},
		DefaultStatus: http.StatusNoContent,
		Security:      auth.RequiredSecurity,
	}, func(ctx context.Context, _ *MyBiodataInput) (*struct{}, error) {
		user := auth.UserFromContext(ctx)

		if err := svc.DeleteOwn(ctx, user.UID); err != nil {
			return nil, mapServiceError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-my-biodata-visibility",
		Method:      http.MethodPost,
		Path:        "/biodatas/me/visibility",
		Summary:     "Toggle current user's biodata visibility",
		Description: "Flips visibility between active and inactive. Only approved biodatas can be toggled; " +
			"otherwise success is false and the message explains why.",
		Tags:     []string{"Biodatas"},
		Security: auth.RequiredSecurity,
	}, func(ctx context.Context, _ *ToggleVisibilityInput) (*ToggleVisibilityOutput, error) {
		user := auth.UserFromContext(ctx)

		result, err := svc.ToggleVisibility(ctx, user.UID)
		if err != nil {
			return nil, mapServiceError(err)
		}
		out := &ToggleVisibilityOutput{}
		out.Body.Success = result.Success
		out.Body.Message = result.Message
		out.Body.NewStatus = string(result.NewStatus)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-biodata",
		Method:      http.MethodGet,
		Path:        "/biodatas/{id}",
		Summary:     "Get a biodata",
		Description: "Retrieves a publicly visible biodata. Owners and admins also see hidden ones.",
		Tags:        []string{"Biodatas"},
		Security:    auth.OptionalSecurity,
	}, func(ctx context.Context, input *BiodataIDInput) (*BiodataOutput, error) {
		b, err := svc.GetPublic(ctx, input.ID, actorFromContext(ctx))
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &BiodataOutput{Body: toHTTPBiodata(b, time.Now())}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "record-biodata-view",
		Method:      http.MethodPost,
		Path:        "/biodatas/{id}/views",
		Summary:     "Record a biodata view",
		Description: "Counts a view unless it comes from the owner or repeats within 24 hours. " +
			"Signed-in viewers are deduplicated by account, anonymous ones by IP address. " +
			"Biodatas the caller cannot see are reported as not found.",
		Tags:     []string{"Biodatas"},
		Security: auth.OptionalSecurity,
	}, func(ctx context.Context, input *RecordViewInput) (*RecordViewOutput, error) {
		if _, err := svc.GetPublic(ctx, input.ID, actorFromContext(ctx)); err != nil {
			return nil, mapServiceError(err)
		}
		req := biodatasvc.ViewRequest{
			BiodataID: input.ID,
			IPAddress: input.clientIP,
			UserAgent: input.UserAgent,
		}
		if user := auth.UserFromContext(ctx); user != nil {
			req.ViewerID = user.UID
		}

		result, err := svc.RecordView(ctx, req)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &RecordViewOutput{
			Body: ViewResult{Counted: result.Counted, Reason: result.Reason},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-biodata-view-count",
		Method:      http.MethodGet,
		Path:        "/biodatas/{id}/view-count",
		Summary:     "Get a biodata's view count",
		Description: "Hidden biodatas are reported as not found except to their owner and admins.",
		Tags:        []string{"Biodatas"},
		Security:    auth.OptionalSecurity,
	}, func(ctx context.Context, input *BiodataIDInput) (*ViewCountOutput, error) {
		if _, err := svc.GetPublic(ctx, input.ID, actorFromContext(ctx)); err != nil {
			return nil, mapServiceError(err)
		}
		count, err := svc.ViewCount(ctx, input.ID)
		if err != nil {
			return nil, mapServiceError(err)
		}
		out := &ViewCountOutput{}
		out.Body.ViewCount = count
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-biodata-view-stats",
		Method:      http.MethodGet,
		Path:        "/biodatas/{id}/view-stats",
		Summary:     "Get a biodata's view statistics",
		Description: "Returns total, last 7 days and this month's views. Restricted to the owner and admins.",
		Tags:        []string{"Biodatas"},
		Security:    auth.RequiredSecurity,
	}, func(ctx context.Context, input *BiodataIDInput) (*ViewStatsOutput, error) {
		actor := actorFromContext(ctx)

		b, err := svc.Get(ctx, input.ID)
		if err != nil {
			return nil, mapServiceError(err)
		}
		if !b.OwnedBy(actor.UserID) && !actor.IsAdmin() {
			return nil, mapServiceError(biodatasvc.ErrPermissionDenied)
		}

		stats, err := svc.ViewStats(ctx, input.ID)
		if err != nil {
			return nil, mapServiceError(err)
		}
		out := &ViewStatsOutput{}
		out.Body.TotalViews = stats.TotalViews
		out.Body.RecentViews = stats.RecentViews
		out.Body.ViewsThisMonth = stats.ViewsThisMonth
		return out, nil
	})
}

func actorFromContext(ctx context.Context) biodatasvc.Actor {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return biodatasvc.Actor{}
	}
	return biodatasvc.Actor{UserID: user.UID, Role: biodatasvc.Role(user.Role)}
}

// searchQuery keeps the filters that were supplied so page links reproduce the search.
func searchQuery(input *SearchInput) url.Values {
	q := url.Values{}
	for key, value := range map[string]string{
		"gender":        input.Gender,
		"maritalStatus": input.MaritalStatus,
		"location":      input.Location,
		"biodataNumber": input.BiodataNumber,
		"ageMin":        input.AgeMin,
		"ageMax":        input.AgeMax,
	} {
		if value != "" {
			q.Set(key, value)
		}
	}
	return q
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, biodatasvc.ErrNotFound):
		return huma.Error404NotFound("biodata not found")
	case errors.Is(err, biodatasvc.ErrPermissionDenied):
		return huma.Error403Forbidden("permission denied")
	case errors.Is(err, biodatasvc.ErrAlreadyExists):
		return huma.Error409Conflict("biodata already exists")
	case errors.Is(err, biodatasvc.ErrInvalidStatus):
		return huma.Error422UnprocessableEntity("invalid status")
	default:
		return huma.Error500InternalServerError("internal error")
	}
}
