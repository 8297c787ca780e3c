package locations

// OptionsInput for GET /locations (no parameters)
type OptionsInput struct{}

// DistrictsInput for GET /locations/divisions/{division}/districts
type DistrictsInput struct {
	Division string `path:"division" doc:"Division name" example:"Dhaka"`
}

// UpazilasInput for GET /locations/divisions/{division}/districts/{district}/upazilas
type UpazilasInput struct {
	Division string `path:"division" doc:"Division name" example:"Dhaka"`
	District string `path:"district" doc:"District name" example:"Gazipur"`
}
