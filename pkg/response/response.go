package response

import "errors"

type Response struct {
	ResponseError `json:"error,omitzero"`
}

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error Codes
type ErrCode string

var (
	FAILED_REQUEST   ErrCode = "REQUEST_FAILED"
	BAD_REQUEST      ErrCode = "FAILED_TO_DECODE"
	NOT_FOUND        ErrCode = "NOT_FOUND"
	LOCKED           ErrCode = "LOCKED"
	DUPLICATE        ErrCode = "DUPLICATE"
	CONFIRM_REQUIRED ErrCode = "CONFIRM_REQUIRED"
	INELIGIBLE       ErrCode = "INELIGIBLE"
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("resource not found")
	ErrLocked     = errors.New("resource is locked")
	// ErrDuplicate: the student already holds a record with the target
	// category in this session.
	ErrDuplicate = errors.New("already marked in this session")
	// ErrCategoryConflict: a record exists with a different category and the
	// request did not confirm the transition.
	ErrCategoryConflict = errors.New("existing record has a different category")
	ErrIneligible       = errors.New("student is not eligible for this category")
)

func Error(code, msg string) Response {
	return Response{
		ResponseError: ResponseError{
			Code:    code,
			Message: msg,
		},
	}
}
