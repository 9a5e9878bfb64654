package services

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ledgerline/ledgerline/internal/activity"
	"github.com/ledgerline/ledgerline/internal/models"
)

// ActivityService owns the append-only timeline. It backs the activity
// recorder (writes) and the per-client timeline reads.
type ActivityService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewActivityService(db *gorm.DB, log *zap.Logger) *ActivityService {
	return &ActivityService{db: db, log: log}
}

// Append implements activity.Store. Single-row insert; the id and
// timestamp are assigned by the database layer.
func (s *ActivityService) Append(ctx context.Context, e activity.Entry) error {
	row := models.Activity{
		ClientID:          e.ClientID,
		Type:              string(e.Type),
		Body:              e.Body,
		RelatedCollection: string(e.Related),
		RelatedID:         e.RelatedID,
		CreatedBy:         e.CreatedBy,
	}
	if e.Meta != nil {
		b, err := json.Marshal(e.Meta)
		if err != nil {
			return fmt.Errorf("encoding activity meta: %w", err)
		}
		row.Meta = string(b)
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

// ListByClient returns the client's timeline newest-first, optionally
// narrowed to a view. The view is re-derived from the full list on every
// call, never maintained as an index.
func (s *ActivityService) ListByClient(ctx context.Context, clientID uint, view activity.View) ([]activity.Entry, error) {
	var rows []models.Activity
	err := s.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at desc, id desc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	entries := make([]activity.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, toEntry(r))
	}
	return activity.Filter(entries, view), nil
}

// AddNote appends a manual note to the client's timeline. Unlike derived
// entries this is a user-authored write, so failures do surface.
func (s *ActivityService) AddNote(ctx context.Context, clientID uint, body, createdBy string) (activity.Entry, error) {
	var client models.Client
	if err := s.db.WithContext(ctx).First(&client, clientID).Error; err != nil {
		return activity.Entry{}, err
	}
	row := models.Activity{
		ClientID:  clientID,
		Type:      string(activity.TypeNote),
		Body:      body,
		CreatedBy: createdBy,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return activity.Entry{}, fmt.Errorf("adding note: %w", err)
	}
	return toEntry(row), nil
}

func toEntry(r models.Activity) activity.Entry {
	e := activity.Entry{
		ID:        r.ID,
		ClientID:  r.ClientID,
		Type:      activity.Type(r.Type),
		Body:      r.Body,
		Related:   activity.Collection(r.RelatedCollection),
		RelatedID: r.RelatedID,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
	}
	if r.Meta != "" {
		var meta map[string]any
		if err := json.Unmarshal([]byte(r.Meta), &meta); err == nil {
			e.Meta = meta
		}
	}
	return e
}
