package chi

// errorCode labels machine-readable API failures.
type errorCode string

const (
	codeBadRequest       errorCode = "bad_request"
	codeValidationFailed errorCode = "validation_failed"
	codeModelNotFound    errorCode = "model_not_found"
	codeModelCorrupt     errorCode = "model_corrupt"
	codeInternalError    errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type searchRequest struct {
	Positive   []string `json:"positive"`
	Negative   []string `json:"negative"`
	Outline    string   `json:"outline"`
	Categories []string `json:"categories"`
	Model      string   `json:"model"`
}

type documentRequest struct {
	Key string `json:"key"`
}

type textRequest struct {
	Text string `json:"text"`
}

type modelRequest struct {
	Variant string `json:"variant"`
}

type modelResponse struct {
	Variant string `json:"variant"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Model  string            `json:"model"`
	Checks map[string]string `json:"checks,omitempty"`
}
