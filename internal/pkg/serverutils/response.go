// FILE: internal/pkg/serverutils/response.go
package serverutils

type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func SuccessResponse(message string, data interface{}) Response {
	return Response{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) Response {
	return Response{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// ValidationErrorResponse lists failing fields keyed by their JSON name.
func ValidationErrorResponse(fields map[string]string) Response {
	return Response{
		Success: false,
		Code:    400,
		Message: "Validation failed",
		Errors:  fields,
	}
}
