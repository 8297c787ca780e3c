package biodata

import (
	"time"

	"github.com/janisto/biodata-discovery/internal/platform/timeutil"
	biodatasvc "github.com/janisto/biodata-discovery/internal/service/biodata"
)

// Address is one permanent or present address.
type Address struct {
	Country  string `json:"country,omitempty"  maxLength:"100" doc:"Country"          example:"Bangladesh"`
	Division string `json:"division,omitempty" maxLength:"100" doc:"Division"         example:"Dhaka"`
	District string `json:"district,omitempty" maxLength:"100" doc:"District"         example:"Gazipur"`
	Upazila  string `json:"upazila,omitempty"  maxLength:"100" doc:"Upazila"          example:"Kaliganj"`
	Area     string `json:"area,omitempty"     maxLength:"200" doc:"Free-text area"   example:"Tongi"`
}

// Biodata is the biodata response.
type Biodata struct {
	ID                     int64          `json:"id"                     doc:"Biodata number"                                 example:"42"`
	Status                 string         `json:"status"                 doc:"Effective status seen by viewers"               example:"active"`
	ApprovalStatus         string         `json:"approvalStatus"         doc:"Moderation status"                              example:"approved"`
	VisibilityStatus       string         `json:"visibilityStatus"       doc:"Owner-controlled visibility"                    example:"active"`
	Gender                 string         `json:"gender,omitempty"       doc:"Gender"                                         example:"female"`
	MaritalStatus          string         `json:"maritalStatus,omitempty" doc:"Marital status"                                example:"never_married"`
	FullName               string         `json:"fullName,omitempty"     doc:"Full name"                                      example:"Ayesha Rahman"`
	BirthDate              *timeutil.Date `json:"birthDate,omitempty"    doc:"Date of birth"                                  example:"1998-04-12"`
	Age                    *int           `json:"age,omitempty"          doc:"Age in whole years"                             example:"27"`
	PermanentAddress       Address        `json:"permanentAddress"       doc:"Permanent address"`
	PresentAddress         Address        `json:"presentAddress"         doc:"Present address"`
	PresentSameAsPermanent bool           `json:"presentSameAsPermanent" doc:"Present address equals the permanent address"   example:"false"`
	ViewCount              int64          `json:"viewCount"              doc:"Counted views"                                  example:"17"`
	CreatedAt              timeutil.Time  `json:"createdAt"              doc:"Creation timestamp"                             example:"2024-01-15T10:30:00.000Z"`
	UpdatedAt              timeutil.Time  `json:"updatedAt"              doc:"Last update timestamp"                          example:"2024-01-15T10:30:00.000Z"`
}

func toHTTPAddress(a biodatasvc.Address) Address {
	return Address{
		Country:  a.Country,
		Division: a.Division,
		District: a.District,
		Upazila:  a.Upazila,
		Area:     a.Area,
	}
}

func fromHTTPAddress(a Address) biodatasvc.Address {
	return biodatasvc.Address{
		Country:  a.Country,
		Division: a.Division,
		District: a.District,
		Upazila:  a.Upazila,
		Area:     a.Area,
	}
}

func toHTTPBiodata(b *biodatasvc.Biodata, now time.Time) Biodata {
	out := Biodata{
		ID:                     b.ID,
		Status:                 string(b.EffectiveStatus()),
		ApprovalStatus:         string(b.ApprovalStatus),
		VisibilityStatus:       string(b.VisibilityStatus),
		Gender:                 b.Gender,
		MaritalStatus:          b.MaritalStatus,
		FullName:               b.FullName,
		BirthDate:              timeutil.DatePtr(b.BirthDate),
		PermanentAddress:       toHTTPAddress(b.PermanentAddress),
		PresentAddress:         toHTTPAddress(b.EffectivePresentAddress()),
		PresentSameAsPermanent: b.PresentSameAsPermanent,
		ViewCount:              b.ViewCount,
		CreatedAt:              timeutil.NewTime(b.CreatedAt),
		UpdatedAt:              timeutil.NewTime(b.UpdatedAt),
	}
	if age, ok := b.Age(now); ok {
		out.Age = &age
	}
	return out
}

func toHTTPList(items []*biodatasvc.Biodata, now time.Time) []Biodata {
	out := make([]Biodata, 0, len(items))
	for _, b := range items {
		out = append(out, toHTTPBiodata(b, now))
	}
	return out
}
