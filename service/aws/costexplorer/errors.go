package awscostexplorer

import (
	"context"
	"errors"

	"github.com/aws/smithy-go"
	"github.com/elC0mpa/cost-explorer-mcp/model"
)

var retryableCodes = map[string]bool{
	"Throttling":                  true,
	"ThrottlingException":         true,
	"TooManyRequestsException":    true,
	"RequestLimitExceeded":        true,
	"LimitExceededException":      true,
	"ServiceUnavailable":          true,
	"ServiceUnavailableException": true,
}

var credentialCodes = map[string]bool{
	"UnrecognizedClientException": true,
	"InvalidClientTokenId":        true,
	"ExpiredToken":                true,
	"ExpiredTokenException":       true,
	"MissingAuthenticationToken":  true,
}

// wrapAPIError keeps the AWS error code and message and drops the SDK's
// operation and request-id decoration.
func wrapAPIError(operation string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		if credentialCodes[code] {
			return &model.CredentialsError{Err: err}
		}
		return &model.AwsApiError{
			Operation: operation,
			Code:      code,
			Message:   apiErr.ErrorMessage(),
			Retryable: retryableCodes[code],
			Err:       err,
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &model.AwsApiError{
			Operation: operation,
			Code:      "RequestCanceled",
			Message:   err.Error(),
			Retryable: true,
			Err:       err,
		}
	}
	return &model.UnexpectedError{Err: err}
}
