package dynamo

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/studybuddy-api/internal/domain"
)

// DynamoDB per-request batch limits.
const (
	batchGetLimit   = 100
	batchWriteLimit = 25
	maxBatchRetries = 5
)

// CourseRepo stores the course catalog. PK: course_code.
type CourseRepo struct {
	client    API
	tableName string
}

func NewCourseRepo(client API, tableName string) *CourseRepo {
	return &CourseRepo{client: client, tableName: tableName}
}

// Search returns up to limit courses whose search_text contains the lowercased query.
func (r *CourseRepo) Search(ctx context.Context, query string, limit int) ([]domain.Course, error) {
	input := &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          aws.String("contains(#st, :q)"),
		ExpressionAttributeNames:  map[string]string{"#st": fieldSearchText},
		ExpressionAttributeValues: map[string]types.AttributeValue{":q": &types.AttributeValueMemberS{Value: strings.ToLower(query)}},
	}
	courses := []domain.Course{}
	p := dynamodb.NewScanPaginator(r.client, input)
	for p.HasMorePages() && len(courses) < limit {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan courses: %w", err)
		}
		var batch []domain.Course
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal courses: %w", err)
		}
		courses = append(courses, batch...)
	}
	if len(courses) > limit {
		courses = courses[:limit]
	}
	return courses, nil
}

// GetByCodes looks up the given codes. Unknown codes are absent from the result.
func (r *CourseRepo) GetByCodes(ctx context.Context, codes []string) (map[string]domain.Course, error) {
	found := make(map[string]domain.Course, len(codes))
	for _, group := range chunk(dedupe(codes), batchGetLimit) {
		keys := make([]map[string]types.AttributeValue, 0, len(group))
		for _, c := range group {
			keys = append(keys, strKey(fieldCourseCode, c))
		}
		req := map[string]types.KeysAndAttributes{r.tableName: {Keys: keys}}
		for attempt := 0; len(req) > 0; attempt++ {
			if attempt == maxBatchRetries {
				return nil, fmt.Errorf("batch get courses: unprocessed keys after %d attempts", attempt)
			}
			out, err := r.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: req})
			if err != nil {
				return nil, fmt.Errorf("batch get courses: %w", err)
			}
			var batch []domain.Course
			if err := attributevalue.UnmarshalListOfMaps(out.Responses[r.tableName], &batch); err != nil {
				return nil, fmt.Errorf("unmarshal courses: %w", err)
			}
			for _, c := range batch {
				found[c.Code] = c
			}
			req = out.UnprocessedKeys
		}
	}
	return found, nil
}

// PutBatch writes courses in batches, overwriting existing codes.
func (r *CourseRepo) PutBatch(ctx context.Context, courses []domain.Course) error {
	for _, group := range chunk(courses, batchWriteLimit) {
		writes := make([]types.WriteRequest, 0, len(group))
		for i := range group {
			item, err := attributevalue.MarshalMap(&group[i])
			if err != nil {
				return fmt.Errorf("marshal course %s: %w", group[i].Code, err)
			}
			writes = append(writes, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
		}
		req := map[string][]types.WriteRequest{r.tableName: writes}
		for attempt := 0; len(req) > 0; attempt++ {
			if attempt == maxBatchRetries {
				return fmt.Errorf("batch write courses: unprocessed items after %d attempts", attempt)
			}
			out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: req})
			if err != nil {
				return fmt.Errorf("batch write courses: %w", err)
			}
			req = out.UnprocessedItems
		}
	}
	return nil
}

func dedupe(s []string) []string {
	seen := make(map[string]struct{}, len(s))
	out := make([]string, 0, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
