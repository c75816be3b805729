package response

import (
	"fmt"
	"net/http"
)

// Send writes responseObj to responseWriter. Body bytes are built before headers are sent, so a
// panicking body turns into a plain 500 response.
func Send(responseWriter http.ResponseWriter, responseObj Response) {
	var responseBody []byte
	var responseStatus int
	var responseHeader http.Header

	func() {
		defer func() {
			if recoveredError := recover(); nil != recoveredError {
				responseBody = []byte(fmt.Sprintf("failed to send response, error: %+v", recoveredError))
				responseStatus = http.StatusInternalServerError
				responseHeader = make(http.Header)
			}
		}()

		responseBody = responseObj.GetBodyBytes().Bytes()
		responseStatus = responseObj.GetHttpStatus()
		responseHeader = responseObj.GetHeaders()
	}()

	for headerName, headerValues := range responseHeader {
		for _, value := range headerValues {
			responseWriter.Header().Add(headerName, value)
		}
	}
	responseWriter.WriteHeader(responseStatus)

	responseWriter.Write(responseBody)
}
