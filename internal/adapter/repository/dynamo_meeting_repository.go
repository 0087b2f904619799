package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// DynamoAPI is the subset of the DynamoDB client used by the repository
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// DynamoMeetingRepository stores meeting records in a DynamoDB table keyed by
// meetingId.
type DynamoMeetingRepository struct {
	client    DynamoAPI
	tableName string
	logger    *zap.Logger
}

// NewDynamoMeetingRepository creates a new DynamoDB meeting repository
func NewDynamoMeetingRepository(client DynamoAPI, tableName string, logger *zap.Logger) *DynamoMeetingRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DynamoMeetingRepository{client: client, tableName: tableName, logger: logger}
}

func (r *DynamoMeetingRepository) key(meetingID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"meetingId": &types.AttributeValueMemberS{Value: meetingID},
	}
}

// SaveMeeting writes the whole item, replacing any previous version
func (r *DynamoMeetingRepository) SaveMeeting(ctx context.Context, record *entities.MeetingRecord) error {
	if record == nil {
		return errors.New("meeting record cannot be nil")
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal meeting record: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put meeting record: %w", err)
	}

	r.logger.Debug("Meeting record saved",
		zap.String("meeting_id", record.MeetingID),
		zap.String("table", r.tableName),
	)
	return nil
}

// FindByID retrieves a meeting record
func (r *DynamoMeetingRepository) FindByID(ctx context.Context, meetingID string) (*entities.MeetingRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       r.key(meetingID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting record: %w", err)
	}
	if out.Item == nil {
		return nil, apperrors.ErrMeetingNotFound(meetingID)
	}

	var record entities.MeetingRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meeting record: %w", err)
	}
	return &record, nil
}

// List scans the table. A positive limit reads a single page of that size,
// otherwise every page is read. Results are ordered newest first.
func (r *DynamoMeetingRepository) List(ctx context.Context, limit int) ([]*entities.MeetingRecord, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.tableName)}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	records := make([]*entities.MeetingRecord, 0)
	for {
		out, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meeting records: %w", err)
		}

		var page []*entities.MeetingRecord
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal meeting records: %w", err)
		}
		records = append(records, page...)

		if limit > 0 || len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// CompleteActionItem sets completed on one list element with a conditional
// update, so concurrent completions never overwrite each other.
func (r *DynamoMeetingRepository) CompleteActionItem(ctx context.Context, meetingID string, taskIndex int) error {
	if taskIndex < 0 {
		return apperrors.ErrActionItemNotFound(meetingID, taskIndex)
	}

	update := expression.Set(
		expression.Name(fmt.Sprintf("analysis.action_items[%d].completed", taskIndex)),
		expression.Value(true),
	)
	condition := expression.Name("meetingId").AttributeExists().
		And(expression.Name("analysis.action_items").Size().GreaterThan(expression.Value(taskIndex)))

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(condition).Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       r.key(meetingID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err == nil {
		return nil
	}

	var ccf *types.ConditionalCheckFailedException
	if !errors.As(err, &ccf) {
		return fmt.Errorf("failed to update action item: %w", err)
	}

	// The condition covers both a missing meeting and an index out of range.
	if _, findErr := r.FindByID(ctx, meetingID); findErr != nil {
		return findErr
	}
	return apperrors.ErrActionItemNotFound(meetingID, taskIndex)
}
