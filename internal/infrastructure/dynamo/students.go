package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/studybuddy-api/internal/domain"
)

// StudentRepo provides typed DynamoDB operations for the students table.
// PK: student_id. GSI: email-index.
type StudentRepo struct {
	client    API
	tableName string
}

func NewStudentRepo(client API, tableName string) *StudentRepo {
	return &StudentRepo{client: client, tableName: tableName}
}

// Put inserts a new profile together with an item reserving its email, in one
// transaction. It fails with domain.ErrConflict when the id or the email is taken.
func (r *StudentRepo) Put(ctx context.Context, s *domain.Student) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal student: %w", err)
	}
	notExists := aws.String("attribute_not_exists(#id)")
	names := map[string]string{"#id": fieldStudentID}
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:                aws.String(r.tableName),
				Item:                     item,
				ConditionExpression:      notExists,
				ExpressionAttributeNames: names,
			}},
			{Put: &types.Put{
				TableName:                aws.String(r.tableName),
				Item:                     strKey(fieldStudentID, emailGuardPrefix+s.Email),
				ConditionExpression:      notExists,
				ExpressionAttributeNames: names,
			}},
		},
	})
	var canceled *types.TransactionCanceledException
	if !errors.As(err, &canceled) {
		return err
	}
	reasons := canceled.CancellationReasons
	if len(reasons) == 2 && aws.ToString(reasons[1].Code) == "ConditionalCheckFailed" {
		return fmt.Errorf("email %s already registered: %w", s.Email, domain.ErrConflict)
	}
	if len(reasons) > 0 && aws.ToString(reasons[0].Code) == "ConditionalCheckFailed" {
		return fmt.Errorf("student %s already exists: %w", s.StudentID, domain.ErrConflict)
	}
	return fmt.Errorf("put student: %w", err)
}

func (r *StudentRepo) Get(ctx context.Context, studentID string) (*domain.Student, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldStudentID, studentID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("student not found: %w", domain.ErrNotFound)
	}
	var s domain.Student
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StudentRepo) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(indexEmail),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": fieldEmail},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: email}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("student not found: %w", domain.ErrNotFound)
	}
	var s domain.Student
	if err := attributevalue.UnmarshalMap(out.Items[0], &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListAll returns every stored profile in scan order.
func (r *StudentRepo) ListAll(ctx context.Context) ([]domain.Student, error) {
	return r.scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          aws.String("NOT begins_with(#id, :guard)"),
		ExpressionAttributeNames:  map[string]string{"#id": fieldStudentID},
		ExpressionAttributeValues: map[string]types.AttributeValue{":guard": &types.AttributeValueMemberS{Value: emailGuardPrefix}},
	})
}

// ListOthers returns every profile except excludeID.
func (r *StudentRepo) ListOthers(ctx context.Context, excludeID string) ([]domain.Student, error) {
	return r.scan(ctx, &dynamodb.ScanInput{
		TableName:                aws.String(r.tableName),
		FilterExpression:         aws.String("#id <> :id AND NOT begins_with(#id, :guard)"),
		ExpressionAttributeNames: map[string]string{"#id": fieldStudentID},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id":    &types.AttributeValueMemberS{Value: excludeID},
			":guard": &types.AttributeValueMemberS{Value: emailGuardPrefix},
		},
	})
}

func (r *StudentRepo) scan(ctx context.Context, input *dynamodb.ScanInput) ([]domain.Student, error) {
	students := []domain.Student{}
	p := dynamodb.NewScanPaginator(r.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan students: %w", err)
		}
		var batch []domain.Student
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal students: %w", err)
		}
		students = append(students, batch...)
	}
	return students, nil
}

// Update applies updates to an existing profile and returns the stored result.
// It fails with domain.ErrNotFound when the profile does not exist.
func (r *StudentRepo) Update(ctx context.Context, studentID string, updates map[string]any) (*domain.Student, error) {
	updates[fieldUpdatedAt] = time.Now().UTC()
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return nil, err
	}
	ue.Names["#id"] = fieldStudentID
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldStudentID, studentID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if isConditionFailed(err) {
		return nil, fmt.Errorf("student not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var s domain.Student
	if err := attributevalue.UnmarshalMap(out.Attributes, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
