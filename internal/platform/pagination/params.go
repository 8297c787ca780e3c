package pagination

// DefaultCursorLimit applies when a cursor-paginated request omits limit.
const DefaultCursorLimit = 20

// Params embeds into huma input structs for cursor pagination.
type Params struct {
	Cursor string `query:"cursor" doc:"Opaque pagination cursor from previous response"`
	Limit  int    `query:"limit"  doc:"Maximum items per page"                          default:"20" minimum:"1" maximum:"100"`
}

// DefaultLimit returns the limit, defaulting to DefaultCursorLimit if unset.
func (p Params) DefaultLimit() int {
	if p.Limit <= 0 {
		return DefaultCursorLimit
	}
	return p.Limit
}
