package request

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// ListParams holds the pagination parameters shared by list endpoints.
type ListParams struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Normalize applies defaults for unset pagination values.
func (p *ListParams) Normalize() {
	if p.Limit < 1 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}
