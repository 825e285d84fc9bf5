package faq

import (
	"context"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// CreateDocument stores the document and its parsed entries in one transaction.
func (r *Repo) CreateDocument(ctx context.Context, doc *Document, entries []Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doc).Error; err != nil {
			return err
		}
		for i := range entries {
			entries[i].DocumentID = doc.ID
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
}

// ListEntries returns all entries in id-ascending order. The order is the
// matcher's tie-break, so it must be stable across calls.
func (r *Repo) ListEntries(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *Repo) ListDocuments(ctx context.Context) ([]Document, error) {
	var docs []Document
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}
