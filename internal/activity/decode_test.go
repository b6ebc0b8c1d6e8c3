package activity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeJSON_Examples(t *testing.T) {
	n := newTestNormalizer()

	payload := []byte(`[
		{"type":"Sale","status":"Completed","transactionId":"t5","createdAt":"2024-04-20",
		 "item":{"itemId":"i9","itemName":"Physics Textbook","price":45,"owner":{"name":"Ms. Johnson"}}},
		{"type":"Donation","status":"Completed","transactionId":"t2",
		 "representativeId":"r1","representative":{"name":"Education Foundation"}},
		{"type":"Exchange","status":"Pending","transactionId":"t4",
		 "exchangedItem":{"itemName":"Chemistry Textbook"}},
		{"type":"Exchange","transactionId":"t9"},
		{"type":"Fundraiser","status":"In Progress","transactionId":"t1","activityId":"f1",
		 "activity":{"title":"Science Lab Equipment","amountRaised":50}}
	]`)

	got, issues, err := n.NormalizeJSON(payload)
	if err != nil {
		t.Fatalf("NormalizeJSON() error = %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("NormalizeJSON() issues = %v, want none", issues)
	}

	want := []DisplayTransaction{
		{ID: 5, Type: TypeSale, Item: "Physics Textbook", Date: "2024-04-20", Amount: "$45.00",
			Status: StatusCompleted, CounterpartyName: "Ms. Johnson", ItemID: "i9"},
		{ID: 2, Type: TypeDonation, Date: "2024-05-01", Amount: "-",
			Status: StatusCompleted, CounterpartyName: "Education Foundation"},
		{ID: 4, Type: TypeExchange, Date: "2024-05-01", Amount: "Chemistry Textbook", Status: StatusPending},
		{ID: 9, Type: TypeExchange, Date: "2024-05-01", Amount: "Item exchange"},
		{ID: 1, Type: TypeFundraiser, Item: "Science Lab Equipment", Date: "2024-05-01", Amount: "$50.00",
			Status: StatusInProgress, ItemID: "f1"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NormalizeJSON() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeJSON_InvalidSyntax(t *testing.T) {
	n := newTestNormalizer()
	_, _, err := n.NormalizeJSON([]byte(`[{"type":`))
	if !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("NormalizeJSON() error = %v, want ErrInvalidJSON", err)
	}
}

func TestNormalizeLoose_NonList(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name  string
		input interface{}
		got   string
	}{
		{"nil", nil, "null"},
		{"object", map[string]interface{}{"type": "Sale"}, "object"},
		{"string", "transactions", "string"},
		{"number", float64(3), "number"},
		{"boolean", true, "boolean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, issues := n.NormalizeLoose(tt.input)
			if rows == nil || len(rows) != 0 {
				t.Errorf("NormalizeLoose() = %#v, want empty non-nil slice", rows)
			}
			want := []FieldIssue{{Index: -1, Got: tt.got}}
			if diff := cmp.Diff(want, issues); diff != "" {
				t.Errorf("issues mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeLoose_EmptyList(t *testing.T) {
	n := newTestNormalizer()
	rows, issues := n.NormalizeLoose([]interface{}{})
	if rows == nil || len(rows) != 0 {
		t.Errorf("NormalizeLoose([]) = %#v, want empty non-nil slice", rows)
	}
	if len(issues) != 0 {
		t.Errorf("NormalizeLoose([]) issues = %v, want none", issues)
	}
}

func TestDecodeRecords_NonObjectElement(t *testing.T) {
	records, issues := DecodeRecords([]interface{}{
		"oops",
		map[string]interface{}{"type": "Donation", "transactionId": "t2"},
	})
	if len(records) != 2 {
		t.Fatalf("DecodeRecords() returned %d records, want 2", len(records))
	}
	if _, ok := records[0].(*UnrecognizedRecord); !ok {
		t.Errorf("records[0] is %T, want *UnrecognizedRecord", records[0])
	}
	if records[1].Type() != TypeDonation {
		t.Errorf("records[1].Type() = %q, want Donation", records[1].Type())
	}
	want := []FieldIssue{{Index: 0, Got: "string"}}
	if diff := cmp.Diff(want, issues); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRecord_WrongTypesFallBack(t *testing.T) {
	n := newTestNormalizer()

	raw := map[string]interface{}{
		"type":          "Sale",
		"transactionId": float64(12),
		"status":        "Completed",
		"createdAt":     nil,
		"item": map[string]interface{}{
			"itemName": "Calculator",
			"price":    "65.00",
			"owner":    "Alex",
		},
		"user": []interface{}{"Alex"},
	}

	record, issues := DecodeRecord(3, raw)
	got := n.Normalize(record)

	want := DisplayTransaction{
		Type:   TypeSale,
		Item:   "Calculator",
		Date:   "2024-05-01",
		Amount: "$0.00",
		Status: StatusCompleted,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}

	wantIssues := []FieldIssue{
		{Index: 3, Field: "transactionId", Got: "number"},
		{Index: 3, Field: "item.price", Got: "string"},
		{Index: 3, Field: "item.owner", Got: "string"},
		{Index: 3, Field: "user", Got: "array"},
	}
	if diff := cmp.Diff(wantIssues, issues); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRecord_Variants(t *testing.T) {
	tests := []struct {
		typ  interface{}
		want string
	}{
		{"Sale", "*activity.SaleRecord"},
		{"Exchange", "*activity.ExchangeRecord"},
		{"Donation", "*activity.DonationRecord"},
		{"Fundraiser", "*activity.FundraiserRecord"},
		{"Rental", "*activity.UnrecognizedRecord"},
		{nil, "*activity.UnrecognizedRecord"},
	}

	for _, tt := range tests {
		record, _ := DecodeRecord(0, map[string]interface{}{"type": tt.typ})
		if got := typeOf(record); got != tt.want {
			t.Errorf("DecodeRecord(type=%v) = %s, want %s", tt.typ, got, tt.want)
		}
	}
}

func TestDecodeRecord_ExchangedItemOnlyOnExchange(t *testing.T) {
	record, _ := DecodeRecord(0, map[string]interface{}{
		"type":          "Exchange",
		"exchangedItem": map[string]interface{}{"itemName": "Basketball"},
	})
	ex, ok := record.(*ExchangeRecord)
	if !ok {
		t.Fatalf("DecodeRecord() = %T, want *ExchangeRecord", record)
	}
	if ex.ExchangedItem == nil || ex.ExchangedItem.ItemName != "Basketball" {
		t.Errorf("ExchangedItem = %+v, want Basketball", ex.ExchangedItem)
	}
}

func TestFieldIssue_String(t *testing.T) {
	if got := (FieldIssue{Index: 1, Field: "item.price", Got: "string"}).String(); got != `element 1: field "item.price" has type string` {
		t.Errorf("String() = %q", got)
	}
	if got := (FieldIssue{Index: -1, Got: "object"}).String(); got != "element -1: got object" {
		t.Errorf("String() = %q", got)
	}
}

func typeOf(v interface{}) string {
	return fmt.Sprintf("%T", v)
}
