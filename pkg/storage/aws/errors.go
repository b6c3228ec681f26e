// File: pkg/storage/aws/errors.go
package aws

import (
	"errors"
	"fmt"
	"net/http"

	"ecsdash/pkg/storage"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
)

var accessDeniedCodes = map[string]bool{
	"AccessDenied":          true,
	"AllAccessDisabled":     true,
	"Forbidden":             true,
	"InvalidAccessKeyId":    true,
	"SignatureDoesNotMatch": true,
}

// Wraps an SDK error with the operation context, tagging permission failures with storage.ErrAccessDenied
func wrapError(op, bucketName string, err error) error {
	target := op
	if bucketName != "" {
		target = fmt.Sprintf("%s on bucket %s", op, bucketName)
	}
	if isAccessDenied(err) {
		return fmt.Errorf("%s: %w: %w", target, storage.ErrAccessDenied, err)
	}
	return fmt.Errorf("%s failed: %w", target, err)
}

// Header S3 sets on redirects and region mismatch errors
const bucketRegionHeader = "X-Amz-Bucket-Region"

// Returns the region S3 says the bucket lives in when err is a region redirect
func redirectRegion(err error) (string, bool) {
	var respErr *awshttp.ResponseError
	if !errors.As(err, &respErr) || respErr.Response == nil || respErr.Response.Response == nil {
		return "", false
	}

	switch respErr.HTTPStatusCode() {
	case http.StatusMovedPermanently, http.StatusTemporaryRedirect, http.StatusBadRequest:
	default:
		return "", false
	}

	region := respErr.Response.Header.Get(bucketRegionHeader)
	return region, region != ""
}

func isAccessDenied(err error) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && accessDeniedCodes[apiErr.ErrorCode()] {
		return true
	}

	// Some S3-compatible services answer 403 without a parseable error body
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusForbidden {
		return true
	}

	return false
}
