package dynamo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/studybuddy-api/internal/domain"
)

// OTCRepo stores one-time codes. PK: email. TTL attribute: expires_at.
// DynamoDB TTL deletion lags, so every read also compares expires_at against the caller's clock.
type OTCRepo struct {
	client    API
	tableName string
}

func NewOTCRepo(client API, tableName string) *OTCRepo {
	return &OTCRepo{client: client, tableName: tableName}
}

// Upsert replaces whatever record exists for rec.Email.
func (r *OTCRepo) Upsert(ctx context.Context, rec *domain.OTCRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal otc: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// MarkVerified sets verified=true in a single conditional write that requires
// a matching code, verified=false and expires_at > now. Concurrent callers race
// on the condition, so at most one of them observes true.
func (r *OTCRepo) MarkVerified(ctx context.Context, email, code string, now time.Time) (bool, error) {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldEmail, email),
		UpdateExpression:    aws.String("SET #ver = :t"),
		ConditionExpression: aws.String("#code = :c AND #ver = :f AND #exp > :now"),
		ExpressionAttributeNames: map[string]string{
			"#code": fieldCode,
			"#ver":  fieldVerified,
			"#exp":  fieldExpiresAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c":   &types.AttributeValueMemberS{Value: code},
			":t":   &types.AttributeValueMemberBOOL{Value: true},
			":f":   &types.AttributeValueMemberBOOL{Value: false},
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)},
		},
	})
	if isConditionFailed(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FindVerifiedUnexpired returns the record for email when it is verified and
// still live at now, and nil otherwise.
func (r *OTCRepo) FindVerifiedUnexpired(ctx context.Context, email string, now time.Time) (*domain.OTCRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldEmail, email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}
	var rec domain.OTCRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, err
	}
	if !rec.Verified || !rec.LiveAt(now) {
		return nil, nil
	}
	return &rec, nil
}

func (r *OTCRepo) Delete(ctx context.Context, email string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldEmail, email),
	})
	return err
}
