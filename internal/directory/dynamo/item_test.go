package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tipjar/internal/directory"
)

func fullRecord() directory.Record {
	return directory.Record{
		ID:        "abc-123",
		Moderated: true,
		Timestamp: "2020-04-01T12:00:00Z",
		Name:      "Alice",
		Email:     "alice@example.com",
		Venue:     "The Spot",
		Position:  "Bartender",
		CashApp:   "$alice",
		Venmo:     "@alice",
		PayPal:    "alice@example.com",
		Photo:     "https://photos.test/abc-123.jpg",
		Thumbnail: "https://photos.test/abc-123-thumb.jpg",
	}
}

func TestRecordCodecRoundTrip(t *testing.T) {
	record := fullRecord()
	assert.Equal(t, record, decodeRecord(encodeRecord(record)))
}

func TestEncodeRecord_OmitsEmptyFields(t *testing.T) {
	record := directory.Record{ID: "abc", Name: "Alice"}
	item := encodeRecord(record)

	assert.Len(t, item, 2)
	assert.Contains(t, item, "id")
	assert.Contains(t, item, "name")
	assert.NotContains(t, item, "moderated", "false moderated is absent, not BOOL false")
}

func TestEncodeRecord_ModeratedIsBoolTyped(t *testing.T) {
	item := encodeRecord(directory.Record{ID: "abc", Moderated: true})

	attr, ok := item["moderated"].(*types.AttributeValueMemberBOOL)
	require.True(t, ok)
	assert.True(t, attr.Value)
}

func TestDecodeRecord_ToleratesForeignItems(t *testing.T) {
	item := map[string]types.AttributeValue{
		"id":     &types.AttributeValueMemberS{Value: "abc"},
		"legacy": &types.AttributeValueMemberS{Value: "ignored"},
		"count":  &types.AttributeValueMemberN{Value: "3"},
		"name":   &types.AttributeValueMemberS{Value: "Alice"},
		"venmo":  &types.AttributeValueMemberN{Value: "42"},
	}

	record := decodeRecord(item)

	assert.Equal(t, "abc", record.ID)
	assert.Equal(t, "Alice", record.Name)
	assert.Empty(t, record.Venmo, "mis-typed attribute is skipped")
	assert.Empty(t, record.Timestamp, "absent attribute stays zero")
}
