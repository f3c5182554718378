package models

// DailyStats aggregates one day's activity for the admin dashboard and the
// evening staff summary
type DailyStats struct {
	Date         string `json:"date"` // YYYY-MM-DD
	Appointments int64  `json:"appointments"`
	LabTests     int64  `json:"lab_tests"`
	NewPatients  int64  `json:"new_patients"`
	Feedback     int64  `json:"feedback"`
	Messages     int64  `json:"messages"`
}

// MessageLog records one processed inbound message, feeding the daily counts
type MessageLog struct {
	ID        uint   `json:"id" gorm:"primarykey"`
	Phone     string `json:"phone" gorm:"index"`
	Body      string `json:"body"`
	CreatedAt int64  `json:"created_at" gorm:"autoCreateTime"`
	Date      string `json:"date" gorm:"index"` // YYYY-MM-DD
}
