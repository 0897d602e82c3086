package contract

import "net/http"

// HTTPStatus maps contract codes to HTTP status codes for the JSON surface.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidInput,
		CodeRPIDValidation,
		CodeCancelled:
		return http.StatusBadRequest

	case CodeNoCredential:
		return http.StatusNotFound

	case CodeTimeout:
		return http.StatusRequestTimeout

	case CodeUnsupported:
		return http.StatusNotImplemented

	default:
		return http.StatusInternalServerError
	}
}
