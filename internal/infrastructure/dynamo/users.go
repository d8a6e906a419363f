package dynamo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-otp-auth/internal/domain"
)

// UserRepo provides typed DynamoDB operations for the users table.
// The table is keyed by phone_number, which is the identity key.
type UserRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserRepo(client *dynamodb.Client, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName}
}

func (r *UserRepo) Get(ctx context.Context, phoneNumber string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("phone_number", phoneNumber),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateIfAbsent inserts u unless a user with the same phone number already
// exists, in which case the existing user is returned. The insert is a
// conditional PutItem, so concurrent calls for the same phone number can
// never create two records: exactly one insert wins and the losers read the
// winner's row.
func (r *UserRepo) CreateIfAbsent(ctx context.Context, u *domain.User) (*domain.User, error) {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return nil, fmt.Errorf("marshal user: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(phone_number)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return r.Get(ctx, u.PhoneNumber)
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) Update(ctx context.Context, phoneNumber string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("phone_number", phoneNumber),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *UserRepo) SoftDelete(ctx context.Context, phoneNumber string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	return r.Update(ctx, phoneNumber, map[string]interface{}{
		fieldEnable:    false,
		fieldDeletedAt: now,
	})
}

// ScanPage returns a page of enabled users.
// cursor is a base64-encoded phone number used as ExclusiveStartKey.
// Returns the items, a next cursor (empty string when no more pages), and any error.
func (r *UserRepo) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error) {
	input, err := scanEnabledInput(r.tableName, limit, cursor)
	if err != nil {
		return nil, "", err
	}
	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, "", err
	}
	var users []domain.User
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &users); err != nil {
		return nil, "", err
	}
	nextCursor := ""
	if v, ok := out.LastEvaluatedKey["phone_number"].(*types.AttributeValueMemberS); ok {
		nextCursor = encodeCursor(v.Value)
	}
	return users, nextCursor, nil
}

// scanEnabledInput builds the enabled-users scan. "enable" is a DynamoDB
// reserved word, so the filter must go through an ExpressionAttributeNames
// alias rather than naming the attribute directly.
func scanEnabledInput(tableName string, limit int32, cursor string) (*dynamodb.ScanInput, error) {
	input := &dynamodb.ScanInput{
		TableName:        aws.String(tableName),
		FilterExpression: aws.String("#en = :t"),
		ExpressionAttributeNames: map[string]string{
			"#en": fieldEnable,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberBOOL{Value: true},
		},
		Limit: aws.Int32(limit),
	}
	if cursor != "" {
		phoneNumber, err := decodeCursor(cursor)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
		}
		input.ExclusiveStartKey = strKey("phone_number", phoneNumber)
	}
	return input, nil
}

func encodeCursor(phoneNumber string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(phoneNumber))
}

func decodeCursor(cursor string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
