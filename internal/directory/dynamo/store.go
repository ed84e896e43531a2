// Package dynamo persists directory records in a DynamoDB table.
package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"tipjar/internal/directory"
)

// Client is the subset of the DynamoDB API the store uses, kept as an
// interface so tests can fake it.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// Store is the key-value-backed record source.
type Store struct {
	client Client
	table  string
}

func New(client Client, table string) *Store {
	return &Store{client: client, table: table}
}

// Load scans the whole table. A full scan won't scale, but the corpus is
// small and fuzzy search plus spotlight sampling need every record anyway.
func (s *Store) Load(ctx context.Context) ([]directory.Record, error) {
	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})
	if err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}
	records := make([]directory.Record, 0, len(out.Items))
	for _, item := range out.Items {
		records = append(records, decodeRecord(item))
	}
	return records, nil
}

func (s *Store) LoadByID(ctx context.Context, id string) (directory.Record, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       recordKey(id),
	})
	if err != nil {
		return directory.Record{}, fmt.Errorf("get record: %w", err)
	}
	if len(out.Item) == 0 {
		return directory.Record{}, directory.ErrNotFound
	}
	return decodeRecord(out.Item), nil
}

func (s *Store) Put(ctx context.Context, record directory.Record) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      encodeRecord(record),
	})
	if err != nil {
		return fmt.Errorf("put record: %w", err)
	}
	return nil
}

func (s *Store) SetModerated(ctx context.Context, id string, moderated bool) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(s.table),
		Key:              recordKey(id),
		UpdateExpression: aws.String("SET #field = :value"),
		ExpressionAttributeNames: map[string]string{
			"#field": "moderated",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":value": &types.AttributeValueMemberBOOL{Value: moderated},
		},
	})
	if err != nil {
		return fmt.Errorf("update moderated: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       recordKey(id),
	})
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

func recordKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}
