// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const errKey = "error"

var (
	// errJSONKey indicates response body did not contain an error message key.
	errJSONKey = New("response body expected error message json key not found")

	// errUnknown indicates that an unknown error was found in the response body.
	errUnknown = New("unknown error")
)

// HTTPError is an error type carrying the status code of the offending
// HTTP response.
type HTTPError interface {
	Error
	StatusCode() int
}

var _ HTTPError = (*httpError)(nil)

type httpError struct {
	*customError
	statusCode int
}

func (he *httpError) Error() string {
	if he == nil {
		return ""
	}
	if he.customError == nil {
		return http.StatusText(he.statusCode)
	}
	return fmt.Sprintf("Status: %s: %s", http.StatusText(he.statusCode), he.customError.Error())
}

func (he *httpError) StatusCode() int {
	return he.statusCode
}

// NewHTTPError returns an HTTPError that formats as the given error,
// without an associated status code.
func NewHTTPError(err error) HTTPError {
	return &httpError{
		customError: &customError{
			msg: err.Error(),
			err: nil,
		},
		statusCode: 0,
	}
}

// NewHTTPErrorWithStatus returns an HTTPError setting the status code.
func NewHTTPErrorWithStatus(err error, statusCode int) HTTPError {
	return &httpError{
		statusCode: statusCode,
		customError: &customError{
			msg: err.Error(),
			err: nil,
		},
	}
}

// CheckError matches the HTTP response status code against the given
// expected codes and, on mismatch, extracts the error message from the
// response body.
func CheckError(resp *http.Response, expectedStatusCodes ...int) HTTPError {
	for _, expectedStatusCode := range expectedStatusCodes {
		if resp.StatusCode == expectedStatusCode {
			return nil
		}
	}

	var content map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return NewHTTPErrorWithStatus(err, resp.StatusCode)
	}

	if msg, ok := content[errKey]; ok {
		if v, ok := msg.(string); ok {
			return NewHTTPErrorWithStatus(errors.New(v), resp.StatusCode)
		}
		return NewHTTPErrorWithStatus(errUnknown, resp.StatusCode)
	}

	return NewHTTPErrorWithStatus(errJSONKey, resp.StatusCode)
}
