package dynamo

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-otp-auth/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanEnabledInput_AliasesReservedWord(t *testing.T) {
	input, err := scanEnabledInput("users", 20, "")
	require.NoError(t, err)

	// "enable" is reserved in DynamoDB expressions; it must only appear
	// behind a name alias, never verbatim in the filter.
	assert.Equal(t, "#en = :t", *input.FilterExpression)
	assert.Equal(t, map[string]string{"#en": "enable"}, input.ExpressionAttributeNames)

	v, ok := input.ExpressionAttributeValues[":t"].(*types.AttributeValueMemberBOOL)
	require.True(t, ok)
	assert.True(t, v.Value)
	assert.Nil(t, input.ExclusiveStartKey)
}

func TestScanEnabledInput_CursorSetsStartKey(t *testing.T) {
	input, err := scanEnabledInput("users", 20, encodeCursor("+15550000001"))
	require.NoError(t, err)

	key, ok := input.ExclusiveStartKey["phone_number"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "+15550000001", key.Value)
}

func TestScanEnabledInput_BadCursor(t *testing.T) {
	_, err := scanEnabledInput("users", 20, "%%%not-base64%%%")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}
