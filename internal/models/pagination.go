package models

// PageMeta is the server-supplied pagination descriptor. It is trusted as-is; only the page count
// is derived client-side for display.
type PageMeta struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// PageCount returns ceil(total/limit), falling back to the provided limit when the server omitted one.
func (m PageMeta) PageCount(fallbackLimit int) int {
	limit := m.Limit
	if limit <= 0 {
		limit = fallbackLimit
	}
	if limit <= 0 || m.Total <= 0 {
		return 0
	}
	return (m.Total + limit - 1) / limit
}

// ListResponse is the `{data, meta}` envelope returned by every list endpoint.
type ListResponse[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// ItemResponse is the `{data}` envelope returned by single-entity endpoints.
type ItemResponse[T any] struct {
	Data T `json:"data"`
}

// MessageResponse is returned by delete endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
