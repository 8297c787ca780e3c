package admin

// ListBiodatasInput for GET /admin/biodatas
type ListBiodatasInput struct {
	ApprovalStatus string `query:"approvalStatus" enum:"pending,approved,rejected,inactive" doc:"Filter by approval status" example:"pending"`
	Page           int    `query:"page"           minimum:"1" maximum:"10000" default:"1"   doc:"Page number (1-based)"    example:"1"`
	Limit          int    `query:"limit"          minimum:"1" maximum:"100" default:"20"    doc:"Items per page"           example:"20"`
}

// UpdateApprovalInput for PATCH /admin/biodatas/{id}/approval
type UpdateApprovalInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Biodata number" example:"42"`
	Body struct {
		ApprovalStatus string `json:"approvalStatus" required:"true" doc:"New approval status (pending, approved, rejected, inactive)" example:"approved"`
	}
}

// DeleteBiodataInput for DELETE /admin/biodatas/{id}
type DeleteBiodataInput struct {
	ID int64 `path:"id" minimum:"1" doc:"Biodata number" example:"42"`
}
