package dynamo

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"tipjar/internal/directory"
)

// The item codec lives beside the store: records are flat attribute maps
// where moderated is BOOL-typed and every other field is string-typed.
// Encoding omits empty fields so a partial record never overwrites unrelated
// attributes; decoding ignores unknown attributes and leaves absent ones at
// their defaults.

func encodeRecord(record directory.Record) map[string]types.AttributeValue {
	item := make(map[string]types.AttributeValue)
	put := func(field, value string) {
		if value == "" {
			return
		}
		item[field] = &types.AttributeValueMemberS{Value: value}
	}
	put("id", record.ID)
	put("timestamp", record.Timestamp)
	put("name", record.Name)
	put("email", record.Email)
	put("venue", record.Venue)
	put("position", record.Position)
	put("cash_app", record.CashApp)
	put("venmo", record.Venmo)
	put("paypal", record.PayPal)
	put("photo", record.Photo)
	put("thumbnail", record.Thumbnail)
	if record.Moderated {
		item["moderated"] = &types.AttributeValueMemberBOOL{Value: true}
	}
	return item
}

func decodeRecord(item map[string]types.AttributeValue) directory.Record {
	var record directory.Record
	for field, attr := range item {
		if field == "moderated" {
			if b, ok := attr.(*types.AttributeValueMemberBOOL); ok {
				record.Moderated = b.Value
			}
			continue
		}
		s, ok := attr.(*types.AttributeValueMemberS)
		if !ok {
			continue
		}
		switch field {
		case "id":
			record.ID = s.Value
		case "timestamp":
			record.Timestamp = s.Value
		case "name":
			record.Name = s.Value
		case "email":
			record.Email = s.Value
		case "venue":
			record.Venue = s.Value
		case "position":
			record.Position = s.Value
		case "cash_app":
			record.CashApp = s.Value
		case "venmo":
			record.Venmo = s.Value
		case "paypal":
			record.PayPal = s.Value
		case "photo":
			record.Photo = s.Value
		case "thumbnail":
			record.Thumbnail = s.Value
		}
	}
	return record
}
