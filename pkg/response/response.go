package response

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// GraphQLError mirrors one entry of a GraphQL "errors" array
type GraphQLError struct {
	Message    string                 `json:"message"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// GraphQLErrors is the body for requests rejected before execution, e.g. an
// unparsable JSON payload. It keeps the GraphQL shape so clients need one parser.
type GraphQLErrors struct {
	Errors []GraphQLError `json:"errors"`
}

func GraphQLFailure(code, message string) GraphQLErrors {
	return GraphQLErrors{Errors: []GraphQLError{{
		Message:    message,
		Extensions: map[string]interface{}{"code": code},
	}}}
}
