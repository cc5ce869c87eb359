package models

type Question struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	PollID       uint     `gorm:"not null;index" json:"poll_id"`
	Text         string   `gorm:"type:text;not null" json:"text"`
	CorrectIndex int      `gorm:"not null" json:"correct_index"`
	OrderNum     int      `gorm:"not null" json:"order_num"`
	Options      []Option `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}
