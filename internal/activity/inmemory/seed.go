package inmemory

import "github.com/dvloznov/school-marketplace/internal/activity"

func amount(v float64) *float64 { return &v }

// SeedRecords returns the mock activity of the demo profile. The records are
// shaped the way a backend would send them, so every kind exercises a
// different fallback path.
func SeedRecords() []activity.RawTransaction {
	return []activity.RawTransaction{
		&activity.SaleRecord{RecordBase: activity.RecordBase{
			TransactionID: "t1",
			Status:        activity.StatusCompleted,
			CreatedAt:     "2024-04-20",
			User:          &activity.Party{Name: "Alex Johnson"},
			Item: &activity.ItemRef{
				ItemID:   "i7",
				ItemName: "Physics Textbook",
				Price:    amount(45),
				Owner:    &activity.Party{Name: "John Smith"},
			},
		}},
		&activity.DonationRecord{RecordBase: activity.RecordBase{
			TransactionID:    "t2",
			Status:           activity.StatusCompleted,
			CreatedAt:        "2024-04-15",
			PostID:           "p12",
			Post:             &activity.PostRef{Title: "School Supplies Bundle"},
			RepresentativeID: "r1",
			Representative:   &activity.Party{Name: "Education Foundation"},
		}},
		&activity.FundraiserRecord{RecordBase: activity.RecordBase{
			TransactionID: "t3",
			Status:        activity.StatusInProgress,
			CreatedAt:     "2024-04-10",
			ActivityID:    "f2",
			Activity:      &activity.ActivityRef{Title: "Science Lab Equipment", AmountRaised: amount(25)},
			User:          &activity.Party{Name: "Science Department"},
		}},
		&activity.ExchangeRecord{
			RecordBase: activity.RecordBase{
				TransactionID: "t4",
				Status:        activity.StatusPending,
				CreatedAt:     "2024-04-08",
				Item: &activity.ItemRef{
					ItemID:   "3",
					ItemName: "Basketball - Official Size",
					Owner:    &activity.Party{Name: "Coach Wilson"},
				},
			},
			ExchangedItem: &activity.ExchangedItemRef{ItemName: "Chemistry Textbook"},
		},
		&activity.SaleRecord{RecordBase: activity.RecordBase{
			TransactionID: "t5",
			Status:        activity.StatusCancelled,
			CreatedAt:     "2024-04-02",
			ItemID:        "2",
			Item: &activity.ItemRef{
				ItemName: "Scientific Calculator TI-84",
				Price:    amount(65),
				Owner:    &activity.Party{Name: "Alex Smith"},
			},
		}},
		&activity.FundraiserRecord{RecordBase: activity.RecordBase{
			TransactionID: "t6",
			Status:        activity.StatusCompleted,
			CreatedAt:     "2024-03-28",
			ActivityID:    "f1",
			Activity:      &activity.ActivityRef{Title: "Band Trip to State Competition", AmountRaised: amount(50)},
			User:          &activity.Party{Name: "Music Department"},
		}},
		&activity.DonationRecord{RecordBase: activity.RecordBase{
			TransactionID: "t7",
			Status:        activity.StatusCompleted,
			CreatedAt:     "2024-03-20",
			Item: &activity.ItemRef{
				ItemID:   "6",
				ItemName: "Recorder Instrument",
				Owner:    &activity.Party{Name: "Music Department"},
			},
		}},
		&activity.ExchangeRecord{RecordBase: activity.RecordBase{
			TransactionID: "t8",
			Status:        activity.StatusInProgress,
			CreatedAt:     "2024-03-15",
			PostID:        "p4",
			Post:          &activity.PostRef{Title: "Art Supply Bundle"},
			User:          &activity.Party{Name: "Emma Green"},
		}},
	}
}
