package biodata

import (
	"net"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/biodata-discovery/internal/platform/timeutil"
)

// SearchInput for GET /biodatas. Values are parsed permissively; malformed numbers are ignored.
type SearchInput struct {
	Gender        string `query:"gender"        doc:"Gender"                                          example:"female"`
	MaritalStatus string `query:"maritalStatus" doc:"Marital status"                                  example:"never_married"`
	Location      string `query:"location"      doc:"Location selector, segments separated by '>'"    example:"Bangladesh > Dhaka > All Districts"`
	BiodataNumber string `query:"biodataNumber" doc:"Exact biodata number"                            example:"42"`
	AgeMin        string `query:"ageMin"        doc:"Minimum age in whole years"                      example:"20"`
	AgeMax        string `query:"ageMax"        doc:"Maximum age in whole years"                      example:"30"`
	Page          string `query:"page"          doc:"Page number (1-based)"                           example:"1"`
	Limit         string `query:"limit"         doc:"Items per page (default 6, max 100)"             example:"6"`
}

// BiodataIDInput addresses one biodata by number.
type BiodataIDInput struct {
	ID int64 `path:"id" minimum:"1" doc:"Biodata number" example:"42"`
}

// RecordViewInput for POST /biodatas/{id}/views
type RecordViewInput struct {
	ID        int64  `path:"id"           minimum:"1" doc:"Biodata number" example:"42"`
	UserAgent string `header:"User-Agent"             doc:"Client user agent"`

	clientIP string
}

// Resolve captures the client address, already rewritten by RealIP when behind a proxy.
func (i *RecordViewInput) Resolve(ctx huma.Context) []error {
	i.clientIP = hostOnly(ctx.RemoteAddr())
	return nil
}

func hostOnly(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// SaveBiodataInput for PUT /biodatas/me
type SaveBiodataInput struct {
	Body struct {
		Gender                 string         `json:"gender"                           enum:"male,female"             required:"true" doc:"Gender"            example:"female"`
		MaritalStatus          string         `json:"maritalStatus"                    minLength:"1" maxLength:"50"   required:"true" doc:"Marital status"    example:"never_married"`
		FullName               string         `json:"fullName"                         minLength:"1" maxLength:"200"  required:"true" doc:"Full name"         example:"Ayesha Rahman"`
		BirthDate              *timeutil.Date `json:"birthDate,omitempty"                                                             doc:"Date of birth"     example:"1998-04-12"`
		PermanentAddress       Address        `json:"permanentAddress"                                                required:"true" doc:"Permanent address"`
		PresentAddress         Address        `json:"presentAddress,omitempty"                                                        doc:"Present address, ignored when presentSameAsPermanent is set"`
		PresentSameAsPermanent bool           `json:"presentSameAsPermanent,omitempty"                                                doc:"Present address equals the permanent address" example:"false"`
	}
}

// MyBiodataInput for GET and DELETE /biodatas/me (no body needed)
type MyBiodataInput struct{}

// ToggleVisibilityInput for POST /biodatas/me/visibility (no body needed)
type ToggleVisibilityInput struct{}
