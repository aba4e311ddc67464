package models

import (
	"time"
)

// NotificationType classifies what triggered a notification
type NotificationType string

const (
	NotificationTypeAnswer  NotificationType = "answer"
	NotificationTypeComment NotificationType = "comment"
	NotificationTypeMention NotificationType = "mention"
	NotificationTypeVote    NotificationType = "vote"
	NotificationTypeAccept  NotificationType = "accept"
)

// Notification is created as a side effect of answer, vote and accept
// actions. Immutable once written except for the IsRead flag.
type Notification struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RecipientID uint             `gorm:"not null;index" json:"recipientId"`
	Type        NotificationType `gorm:"size:20;not null" json:"type"`
	QuestionID  uint             `gorm:"not null" json:"questionId"`
	AnswerID    *uint            `json:"answerId"`
	Content     string           `gorm:"type:text;not null" json:"content"`
	IsRead      bool             `gorm:"default:false;index" json:"isRead"`
	SenderID    *uint            `json:"senderId"`
	Sender      *User            `gorm:"foreignKey:SenderID" json:"-"`
	CreatedAt   time.Time        `gorm:"index" json:"createdAt"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// Response
type NotificationResponse struct {
	ID         uint             `json:"id"`
	Type       NotificationType `json:"type"`
	QuestionID uint             `json:"questionId"`
	AnswerID   *uint            `json:"answerId"`
	Content    string           `json:"content"`
	IsRead     bool             `json:"isRead"`
	Sender     *AuthorPreview   `json:"sender"`
	CreatedAt  time.Time        `json:"createdAt"`
}

func (n *Notification) ToResponse() NotificationResponse {
	resp := NotificationResponse{
		ID:         n.ID,
		Type:       n.Type,
		QuestionID: n.QuestionID,
		AnswerID:   n.AnswerID,
		Content:    n.Content,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt,
	}
	if n.Sender != nil {
		preview := n.Sender.Preview()
		resp.Sender = &preview
	}
	return resp
}
