package activity

// TransactionType is the kind of marketplace activity a record describes.
type TransactionType string

const (
	// TypeSale is an item sold for money.
	TypeSale TransactionType = "Sale"
	// TypeExchange is an item swapped for another item.
	TypeExchange TransactionType = "Exchange"
	// TypeDonation is an item given away.
	TypeDonation TransactionType = "Donation"
	// TypeFundraiser is a contribution to a fundraising campaign.
	TypeFundraiser TransactionType = "Fundraiser"
)

// Status is the lifecycle state of a transaction. It is passed through to
// the display record unchanged.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusCompleted  Status = "Completed"
	StatusInProgress Status = "In Progress"
	StatusCancelled  Status = "Cancelled"
)

// Known reports whether t is one of the declared transaction kinds.
func (t TransactionType) Known() bool {
	switch t {
	case TypeSale, TypeExchange, TypeDonation, TypeFundraiser:
		return true
	}
	return false
}

// Party names a person or organisation taking part in a transaction.
type Party struct {
	Name string
}

// ItemRef is the listing a transaction refers to.
type ItemRef struct {
	ItemID   string
	ItemName string
	Price    *float64 // nil when the source omits it
	Owner    *Party
}

// PostRef is a marketplace post.
type PostRef struct {
	Title string
}

// ActivityRef is a fundraising campaign.
type ActivityRef struct {
	Title        string
	AmountRaised *float64
}

// ExchangedItemRef is the item received in return during an exchange.
type ExchangedItemRef struct {
	ItemName string
}

// RecordBase holds the fields every raw transaction may carry.
// Empty strings and nil pointers mean the field was absent upstream.
type RecordBase struct {
	TransactionID    string
	Status           Status
	CreatedAt        string
	PostID           string
	ActivityID       string
	ItemID           string
	RepresentativeID string

	Item           *ItemRef
	Post           *PostRef
	Activity       *ActivityRef
	Representative *Party
	User           *Party
}

// RawTransaction is a raw record as supplied by a data source. The concrete
// type decides how the display amount is derived; the set of
// implementations is closed to this package.
type RawTransaction interface {
	// Type returns the transaction kind as reported by the source.
	Type() TransactionType
	base() *RecordBase
}

// SaleRecord is a raw sale. Its amount comes from Item.Price.
type SaleRecord struct {
	RecordBase
}

// ExchangeRecord is a raw exchange. Its amount is the name of the item
// received.
type ExchangeRecord struct {
	RecordBase
	ExchangedItem *ExchangedItemRef
}

// DonationRecord is a raw donation. Donations carry no monetary amount.
type DonationRecord struct {
	RecordBase
}

// FundraiserRecord is a raw fundraiser contribution. Its amount comes from
// Activity.AmountRaised.
type FundraiserRecord struct {
	RecordBase
}

// UnrecognizedRecord is a record whose type is missing or outside the
// declared kinds. RawType keeps what the source sent.
type UnrecognizedRecord struct {
	RecordBase
	RawType string
}

func (r *SaleRecord) Type() TransactionType { return TypeSale }
func (r *ExchangeRecord) Type() TransactionType { return TypeExchange }
func (r *DonationRecord) Type() TransactionType { return TypeDonation }
func (r *FundraiserRecord) Type() TransactionType { return TypeFundraiser }

// Type implements RawTransaction.
func (r *UnrecognizedRecord) Type() TransactionType {
	if r == nil {
		return ""
	}
	return TransactionType(r.RawType)
}

// base methods tolerate nil receivers so a typed nil still normalizes.

func (r *SaleRecord) base() *RecordBase {
	if r == nil {
		return &RecordBase{}
	}
	return &r.RecordBase
}

func (r *ExchangeRecord) base() *RecordBase {
	if r == nil {
		return &RecordBase{}
	}
	return &r.RecordBase
}

func (r *DonationRecord) base() *RecordBase {
	if r == nil {
		return &RecordBase{}
	}
	return &r.RecordBase
}

func (r *FundraiserRecord) base() *RecordBase {
	if r == nil {
		return &RecordBase{}
	}
	return &r.RecordBase
}

func (r *UnrecognizedRecord) base() *RecordBase {
	if r == nil {
		return &RecordBase{}
	}
	return &r.RecordBase
}

// Base returns the shared fields of a raw record.
func Base(r RawTransaction) RecordBase {
	if r == nil {
		return RecordBase{}
	}
	return *r.base()
}

// NewRecord builds the variant matching t around base. Unknown kinds yield
// an *UnrecognizedRecord.
func NewRecord(t TransactionType, base RecordBase) RawTransaction {
	switch t {
	case TypeSale:
		return &SaleRecord{RecordBase: base}
	case TypeExchange:
		return &ExchangeRecord{RecordBase: base}
	case TypeDonation:
		return &DonationRecord{RecordBase: base}
	case TypeFundraiser:
		return &FundraiserRecord{RecordBase: base}
	default:
		return &UnrecognizedRecord{RecordBase: base, RawType: string(t)}
	}
}

// DisplayTransaction is the flattened, fully-defaulted row rendered by the
// activity table.
type DisplayTransaction struct {
	ID               int             `json:"id"`
	Type             TransactionType `json:"type"`
	Item             string          `json:"item"`
	Date             string          `json:"date"`
	Amount           string          `json:"amount"`
	Status           Status          `json:"status"`
	CounterpartyName string          `json:"counterpartyName"`
	ItemID           string          `json:"itemId"`
}

// Clone returns a deep copy of r so callers can hold it without sharing
// nested pointers with the original.
func Clone(r RawTransaction) RawTransaction {
	if r == nil {
		return nil
	}
	b := Base(r)
	if b.Item != nil {
		item := *b.Item
		if item.Price != nil {
			p := *item.Price
			item.Price = &p
		}
		if item.Owner != nil {
			owner := *item.Owner
			item.Owner = &owner
		}
		b.Item = &item
	}
	if b.Post != nil {
		post := *b.Post
		b.Post = &post
	}
	if b.Activity != nil {
		act := *b.Activity
		if act.AmountRaised != nil {
			v := *act.AmountRaised
			act.AmountRaised = &v
		}
		b.Activity = &act
	}
	if b.Representative != nil {
		rep := *b.Representative
		b.Representative = &rep
	}
	if b.User != nil {
		user := *b.User
		b.User = &user
	}

	switch v := r.(type) {
	case *ExchangeRecord:
		out := &ExchangeRecord{RecordBase: b}
		if v != nil && v.ExchangedItem != nil {
			ex := *v.ExchangedItem
			out.ExchangedItem = &ex
		}
		return out
	case *UnrecognizedRecord:
		return &UnrecognizedRecord{RecordBase: b, RawType: string(v.Type())}
	}
	return NewRecord(r.Type(), b)
}
