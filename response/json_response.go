package response

import (
	"bytes"
	"encoding/json"
	"net/http"
)

type JsonResponse struct {
	basicResponse
	Body interface{}
}

func (r *JsonResponse) GetBodyBytes() *bytes.Buffer {
	result := &bytes.Buffer{}

	encoder := json.NewEncoder(result)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r.Body); err != nil {
		panic(err)
	}

	return result
}

//--------------------

func NewJsonResponse(body interface{}) *JsonResponse {
	r := &JsonResponse{
		basicResponse: basicResponse{
			httpStatus: http.StatusOK,
			headers:    make(http.Header),
		},
		Body: body,
	}
	r.HeaderSet("Content-Type", "application/json")

	return r
}

// NewJsonErrorResponse wraps message into {"error": message}
func NewJsonErrorResponse(status int, message string) *JsonResponse {
	r := NewJsonResponse(map[string]string{"error": message})
	r.SetHttpStatus(status)

	return r
}
