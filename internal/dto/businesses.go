package dto

// ListFilter contains query parameters for listing endpoints.
type ListFilter struct {
	Q       string
	Status  string
	Page    int
	PerPage int
}

// UpdateBusinessRequest carries the editable listing fields. The payload is
// bound as an untyped record so the submission pipeline can re-validate it.
type UpdateBusinessRequest map[string]any

// StatusUpdateRequest moves a listing through the review workflow.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}
