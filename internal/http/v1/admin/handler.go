package admin

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/biodata-discovery/internal/platform/auth"
	"github.com/janisto/biodata-discovery/internal/platform/pagination"
	biodatasvc "github.com/janisto/biodata-discovery/internal/service/biodata"
)

// Service is the subset of the biodata service used for moderation.
type Service interface {
	ListForAdmin(
		ctx context.Context,
		actor biodatasvc.Actor,
		status biodatasvc.ApprovalStatus,
		page, limit int,
	) ([]*biodatasvc.Biodata, pagination.Meta, error)
	UpdateApprovalStatus(
		ctx context.Context,
		actor biodatasvc.Actor,
		id int64,
		status biodatasvc.ApprovalStatus,
	) (*biodatasvc.Biodata, error)
	Delete(ctx context.Context, actor biodatasvc.Actor, id int64) error
}

// Register registers moderation endpoints. Role checks happen in the service.
func Register(api huma.API, svc Service, prefix string) {
	huma.Register(api, huma.Operation{
		OperationID: "admin-list-biodatas",
		Method:      http.MethodGet,
		Path:        "/admin/biodatas",
		Summary:     "List biodatas for moderation",
		Description: "Pages through all biodatas, newest first, optionally filtered by approval status. Admins only.",
		Tags:        []string{"Admin"},
		Security:    auth.RequiredSecurity,
	}, func(ctx context.Context, input *ListBiodatasInput) (*ListBiodatasOutput, error) {
		items, meta, err := svc.ListForAdmin(ctx, actorFromContext(ctx),
			biodatasvc.ApprovalStatus(input.ApprovalStatus), input.Page, input.Limit)
		if err != nil {
			return nil, mapServiceError(err)
		}

		query := url.Values{}
		if input.ApprovalStatus != "" {
			query.Set("approvalStatus", input.ApprovalStatus)
		}
		data := make([]Biodata, 0, len(items))
		for _, b := range items {
			data = append(data, toHTTPBiodata(b))
		}
		return &ListBiodatasOutput{
			Link: pagination.BuildPageLinkHeader(prefix+"/admin/biodatas", query, meta),
			Body: ListData{Data: data, Pagination: meta},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-update-approval",
		Method:      http.MethodPatch,
		Path:        "/admin/biodatas/{id}/approval",
		Summary:     "Set a biodata's approval status",
		Description: "Moves a biodata to any approval status. Visibility is left untouched. Admins only.",
		Tags:        []string{"Admin"},
		Security:    auth.RequiredSecurity,
	}, func(ctx context.Context, input *UpdateApprovalInput) (*BiodataOutput, error) {
		status, err := biodatasvc.ParseApprovalStatus(input.Body.ApprovalStatus)
		if err != nil {
			return nil, mapServiceError(err)
		}

		b, err := svc.UpdateApprovalStatus(ctx, actorFromContext(ctx), input.ID, status)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &BiodataOutput{Body: toHTTPBiodata(b)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "admin-delete-biodata",
		Method:        http.MethodDelete,
		Path:          "/admin/biodatas/{id}",
		Summary:       "Delete a biodata",
		Description:   "Permanently deletes a biodata with its views and favorites. Superadmins only.",
		Tags:          []string{"Admin"},
		DefaultStatus: http.StatusNoContent,
		Security:      auth.RequiredSecurity,
	}, func(ctx context.Context, input *DeleteBiodataInput) (*struct{}, error) {
		if err := svc.Delete(ctx, actorFromContext(ctx), input.ID); err != nil {
			return nil, mapServiceError(err)
		}
		return nil, nil
	})
}

func actorFromContext(ctx context.Context) biodatasvc.Actor {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return biodatasvc.Actor{}
	}
	return biodatasvc.Actor{UserID: user.UID, Role: biodatasvc.Role(user.Role)}
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, biodatasvc.ErrNotFound):
		return huma.Error404NotFound("biodata not found")
	case errors.Is(err, biodatasvc.ErrPermissionDenied):
		return huma.Error403Forbidden("permission denied")
	case errors.Is(err, biodatasvc.ErrInvalidStatus):
		return huma.Error422UnprocessableEntity(err.Error())
	default:
		return huma.Error500InternalServerError("internal error")
	}
}
