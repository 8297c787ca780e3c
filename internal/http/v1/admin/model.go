package admin

import (
	"github.com/janisto/biodata-discovery/internal/platform/timeutil"
	biodatasvc "github.com/janisto/biodata-discovery/internal/service/biodata"
)

// Biodata is the moderation view of a biodata.
type Biodata struct {
	ID               int64         `json:"id"               doc:"Biodata number"                   example:"42"`
	OwnerID          string        `json:"ownerId"          doc:"Owning user"                      example:"user-123"`
	FullName         string        `json:"fullName"         doc:"Full name"                        example:"Ayesha Rahman"`
	Gender           string        `json:"gender"           doc:"Gender"                           example:"female"`
	Status           string        `json:"status"           doc:"Effective status seen by viewers" example:"pending"`
	ApprovalStatus   string        `json:"approvalStatus"   doc:"Moderation status"                example:"pending"`
	VisibilityStatus string        `json:"visibilityStatus" doc:"Owner-controlled visibility"      example:"active"`
	ViewCount        int64         `json:"viewCount"        doc:"Counted views"                    example:"0"`
	CreatedAt        timeutil.Time `json:"createdAt"        doc:"Creation timestamp"               example:"2024-01-15T10:30:00.000Z"`
	UpdatedAt        timeutil.Time `json:"updatedAt"        doc:"Last update timestamp"            example:"2024-01-15T10:30:00.000Z"`
}

func toHTTPBiodata(b *biodatasvc.Biodata) Biodata {
	return Biodata{
		ID:               b.ID,
		OwnerID:          b.OwnerID,
		FullName:         b.FullName,
		Gender:           b.Gender,
		Status:           string(b.EffectiveStatus()),
		ApprovalStatus:   string(b.ApprovalStatus),
		VisibilityStatus: string(b.VisibilityStatus),
		ViewCount:        b.ViewCount,
		CreatedAt:        timeutil.NewTime(b.CreatedAt),
		UpdatedAt:        timeutil.NewTime(b.UpdatedAt),
	}
}
