package sthree

import (
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/fairjournal/journalfs/pkg/errors"
	"github.com/fairjournal/journalfs/pkg/storage/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSentinelErrors(t *testing.T) {
	require.NoError(t, toSentinelErrors(nil))

	for _, toPin := range []struct {
		code     string
		status   int
		expected error
	}{
		{code: "NoSuchKey", status: 404, expected: status.ErrNotExists},
		{code: "NotFound", status: 404, expected: status.ErrNotExists},
		{code: "NoSuchBucket", status: 404, expected: status.ErrNotFound},
		{code: "InvalidBucketName", status: 400, expected: status.ErrInvalidResource},
		{code: "BadDigest", status: 400, expected: status.ErrStorageAPI},
		{code: "Unauthorized", status: 401, expected: status.ErrUnauthorized},
		{code: "AccessDenied", status: 403, expected: status.ErrForbidden},
		{code: "PreconditionFailed", status: 412, expected: status.ErrExists},
		{code: "InternalError", status: 500, expected: status.ErrStorageAPI},
	} {
		fixture := toPin
		t.Run(fixture.code, func(t *testing.T) {
			awsErr := awserr.NewRequestFailure(awserr.New(fixture.code, "message", nil), fixture.status, "request-id")
			err := toSentinelErrors(awsErr)
			assert.True(t, errors.Is(err, fixture.expected), "expected %v, got %v", fixture.expected, err)
			assert.True(t, errors.Is(err, awsErr), "the API error remains in the chain")
		})
	}

	err := toSentinelErrors(fmt.Errorf("dial tcp: connection refused"))
	assert.True(t, errors.Is(err, status.ErrStorageAPI))

	assert.NoError(t, filterErrNotExists(status.ErrNotExists.Wrap(fmt.Errorf("gone"))))
	assert.Error(t, filterErrNotExists(status.ErrForbidden))
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(Bucket(""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidResource))
}
