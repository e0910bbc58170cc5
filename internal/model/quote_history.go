package model

import "github.com/shopspring/decimal"

// QuoteRecord is a historical quote joined with the request that produced it.
type QuoteRecord struct {
	ID               uint            `gorm:"primaryKey" json:"-"`
	RequestID        int             `gorm:"index" json:"request_id"`
	OriginalRequest  string          `gorm:"type:text" json:"original_request"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(14,4)" json:"total_amount"`
	QuoteExplanation string          `gorm:"type:text" json:"quote_explanation"`
	JobType          string          `gorm:"type:varchar(100)" json:"job_type"`
	OrderSize        string          `gorm:"type:varchar(50)" json:"order_size"`
	EventType        string          `gorm:"type:varchar(100)" json:"event_type"`
	OrderDate        string          `gorm:"type:varchar(10);index" json:"order_date"`
}

func (QuoteRecord) TableName() string {
	return "quote_history"
}

// CustomerInquiry is one row of the sample request corpus replayed by the simulator.
type CustomerInquiry struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Job         string `gorm:"type:varchar(100)" json:"job"`
	Event       string `gorm:"type:varchar(100)" json:"event"`
	Request     string `gorm:"type:text" json:"request"`
	RequestDate string `gorm:"type:varchar(10);index" json:"request_date"`
}

func (CustomerInquiry) TableName() string {
	return "customer_inquiries"
}
