package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var httpStatusErrors = map[int]error{
	http.StatusBadRequest:          ErrBadRequest,
	http.StatusUnauthorized:        ErrUnauthorized,
	http.StatusNotFound:            ErrNotFound,
	http.StatusConflict:            ErrConflict,
	http.StatusInternalServerError: ErrInternalServerError,
	http.StatusServiceUnavailable:  ErrServiceUnavailable,
}

var grpcCodeErrors = map[codes.Code]error{
	codes.InvalidArgument: ErrBadRequest,
	codes.Unauthenticated: ErrUnauthorized,
	codes.NotFound:        ErrNotFound,
	codes.AlreadyExists:   ErrConflict,
	codes.Internal:        ErrInternalServerError,
	codes.Unknown:         ErrInternalServerError,
	codes.Unavailable:     ErrServiceUnavailable,
}

// mapHTTPError turns a non-2xx response into one of the package errors,
// keeping the response body as detail.
func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= 200 && code < 300 {
		return nil
	}

	detail := strings.TrimSpace(string(resp.Body()))
	if known, ok := httpStatusErrors[code]; ok {
		return fmt.Errorf("%w: %s", known, detail)
	}
	if detail == "" {
		detail = http.StatusText(code)
	}
	return fmt.Errorf("http %d: %s", code, detail)
}

// mapGRPCError does the same for gRPC status errors. Errors without a
// status pass through unchanged.
func mapGRPCError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	if known, found := grpcCodeErrors[st.Code()]; found {
		return fmt.Errorf("%w: %s", known, st.Message())
	}
	return fmt.Errorf("grpc %s: %s", st.Code(), st.Message())
}
