package locations

// OptionsOutput for GET /locations
type OptionsOutput struct {
	Body struct {
		Country string   `json:"country" doc:"Country at the root of every selector" example:"Bangladesh"`
		Options []string `json:"options" doc:"Selector strings, broadest first"`
	}
}

// NamesOutput lists place names at one level.
type NamesOutput struct {
	Body struct {
		Items []string `json:"items" doc:"Place names in dataset order"`
	}
}
