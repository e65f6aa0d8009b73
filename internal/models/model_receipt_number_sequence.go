package models

// ReceiptNumberSequence backs the sequence-based receipt number source.
// The counter workflow transcribes numbers from pre-printed receipt booklets
// instead, so this table stays empty unless the sequence source is enabled.
type ReceiptNumberSequence struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Prefix    string `gorm:"column:prefix;type:varchar(4);not null;uniqueIndex" json:"prefix"`
	NextValue int64  `gorm:"column:next_value;not null;default:1" json:"next_value"`
}

func (ReceiptNumberSequence) TableName() string {
	return "receipt_number_sequences"
}
