package httpdto

// Response wraps non-ingress JSON replies (health, errors).
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// PublishResponse is returned by every /api event endpoint. It is not wrapped
// in Response: overlay clients read the uuid key at the top level.
type PublishResponse struct {
	UUID string `json:"uuid"`
}

func NewSuccessResponse[T any](data T) Response[T] {
	return Response[T]{
		Success: true,
		Data:    data,
	}
}

func NewErrorResponse(err string, code string) Response[any] {
	return Response[any]{
		Success: false,
		Error:   err,
		Code:    code,
	}
}
