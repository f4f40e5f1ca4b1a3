package objects

// ErrorResponse is the JSON error body for all failure responses. The shape
// matches the FastAPI convention ({"detail": "..."}), so clients written
// against the reference vision server keep working.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ModelList is the payload of GET /models.
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}
