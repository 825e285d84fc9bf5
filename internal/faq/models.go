package faq

import "time"

// Document is an admin-uploaded FAQ file. Immutable after upload.
type Document struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Filename  string    `gorm:"size:255;not null" json:"filename"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Timestamp time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

func (Document) TableName() string { return "faq_documents" }

// Entry is one matchable question/answer record parsed out of a Document.
type Entry struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	DocumentID uint   `gorm:"index;not null" json:"document_id"`
	Question   string `gorm:"type:text;not null" json:"question"`
	Answer     string `gorm:"type:text;not null" json:"answer"`
}

func (Entry) TableName() string { return "faq_entries" }
