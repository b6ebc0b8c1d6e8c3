package activity

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidJSON is returned when a payload is not syntactically valid JSON.
var ErrInvalidJSON = errors.New("invalid JSON")

// FieldIssue records a present field whose value had the wrong shape. The
// field is treated as absent and normalization falls back as if it were
// missing. Index is the element position, or -1 for the top level.
type FieldIssue struct {
	Index int
	Field string
	Got   string
}

func (i FieldIssue) String() string {
	if i.Field == "" {
		return fmt.Sprintf("element %d: got %s", i.Index, i.Got)
	}
	return fmt.Sprintf("element %d: field %q has type %s", i.Index, i.Field, i.Got)
}

// DecodeJSON parses a JSON payload into raw records. Only syntax errors are
// reported as errors; shape problems become issues.
func DecodeJSON(data []byte) ([]RawTransaction, []FieldIssue, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, nil, fmt.Errorf("DecodeJSON: %w: %v", ErrInvalidJSON, err)
	}
	records, issues := DecodeRecords(v)
	return records, issues, nil
}

// DecodeRecords converts a decoded JSON value into raw records. Anything
// other than a list yields an empty, non-nil slice and a single top-level
// issue. Elements that are not objects decode to an empty
// *UnrecognizedRecord so positions are preserved.
func DecodeRecords(v interface{}) ([]RawTransaction, []FieldIssue) {
	list, ok := v.([]interface{})
	if !ok {
		return []RawTransaction{}, []FieldIssue{{Index: -1, Got: typeName(v)}}
	}

	records := make([]RawTransaction, 0, len(list))
	var issues []FieldIssue
	for i, elem := range list {
		r, elemIssues := DecodeRecord(i, elem)
		records = append(records, r)
		issues = append(issues, elemIssues...)
	}
	return records, issues
}

// DecodeRecord converts a single element. index is only used to label issues.
func DecodeRecord(index int, v interface{}) (RawTransaction, []FieldIssue) {
	d := &recordDecoder{index: index}

	obj, ok := v.(map[string]interface{})
	if !ok {
		d.issue("", v)
		return &UnrecognizedRecord{}, d.issues
	}

	base := RecordBase{
		TransactionID:    d.str(obj, "transactionId", ""),
		Status:           Status(d.str(obj, "status", "")),
		CreatedAt:        d.str(obj, "createdAt", ""),
		PostID:           d.str(obj, "postId", ""),
		ActivityID:       d.str(obj, "activityId", ""),
		ItemID:           d.str(obj, "itemId", ""),
		RepresentativeID: d.str(obj, "representativeId", ""),
	}

	if m := d.obj(obj, "item", ""); m != nil {
		item := &ItemRef{
			ItemID:   d.str(m, "itemId", "item."),
			ItemName: d.str(m, "itemName", "item."),
			Price:    d.num(m, "price", "item."),
		}
		if owner := d.obj(m, "owner", "item."); owner != nil {
			item.Owner = &Party{Name: d.str(owner, "name", "item.owner.")}
		}
		base.Item = item
	}
	if m := d.obj(obj, "post", ""); m != nil {
		base.Post = &PostRef{Title: d.str(m, "title", "post.")}
	}
	if m := d.obj(obj, "activity", ""); m != nil {
		base.Activity = &ActivityRef{
			Title:        d.str(m, "title", "activity."),
			AmountRaised: d.num(m, "amountRaised", "activity."),
		}
	}
	if m := d.obj(obj, "representative", ""); m != nil {
		base.Representative = &Party{Name: d.str(m, "name", "representative.")}
	}
	if m := d.obj(obj, "user", ""); m != nil {
		base.User = &Party{Name: d.str(m, "name", "user.")}
	}

	record := NewRecord(TransactionType(d.str(obj, "type", "")), base)
	if ex, ok := record.(*ExchangeRecord); ok {
		if m := d.obj(obj, "exchangedItem", ""); m != nil {
			ex.ExchangedItem = &ExchangedItemRef{ItemName: d.str(m, "itemName", "exchangedItem.")}
		}
	}

	return record, d.issues
}

// recordDecoder reads optional fields from one element and collects issues
// for values of the wrong type. Absent keys and JSON null are not issues.
type recordDecoder struct {
	index  int
	issues []FieldIssue
}

func (d *recordDecoder) issue(field string, v interface{}) {
	d.issues = append(d.issues, FieldIssue{Index: d.index, Field: field, Got: typeName(v)})
}

func (d *recordDecoder) str(m map[string]interface{}, key, prefix string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		d.issue(prefix+key, v)
		return ""
	}
	return s
}

func (d *recordDecoder) num(m map[string]interface{}, key, prefix string) *float64 {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	switch val := v.(type) {
	case float64:
		f := val
		return &f
	case int:
		f := float64(val)
		return &f
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			d.issue(prefix+key, v)
			return nil
		}
		return &f
	}
	d.issue(prefix+key, v)
	return nil
}

func (d *recordDecoder) obj(m map[string]interface{}, key, prefix string) map[string]interface{} {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	sub, ok := v.(map[string]interface{})
	if !ok {
		d.issue(prefix+key, v)
		return nil
	}
	return sub
}

// typeName reports a decoded JSON value's kind in JSON terms.
func typeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, json.Number:
		return "number"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
