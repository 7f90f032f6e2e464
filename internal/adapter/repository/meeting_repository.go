package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/meetnotes/internal/domain/entities"
	repo "github.com/johnquangdev/meetnotes/internal/domain/repositories"
	"github.com/johnquangdev/meetnotes/internal/infrastructure/database"
)

type meetingRepository struct {
	db     *gorm.DB
	driver string
	logger *zap.Logger
}

// NewMeetingRepository creates a meeting repository backed by GORM
func NewMeetingRepository(db *gorm.DB, driver string, logger *zap.Logger) repo.MeetingRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &meetingRepository{db: db, driver: driver, logger: logger}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", entities.ErrStorage, op, err)
}

func (r *meetingRepository) InitSchema(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return storageErr("init schema", err)
	}
	n, err := database.Migrate(r.db, r.driver)
	if err != nil {
		return storageErr("init schema", err)
	}
	r.logger.Debug("schema ready", zap.String("driver", r.driver), zap.Int("applied", n))
	return nil
}

func (r *meetingRepository) InsertMeeting(ctx context.Context, rec *entities.MeetingRecord) (int64, error) {
	if rec == nil {
		return 0, storageErr("insert meeting", errors.New("record cannot be nil"))
	}
	// Identity and creation time always come from the store
	rec.ID = 0
	rec.CreatedAt = time.Time{}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return 0, storageErr("insert meeting", err)
	}
	r.logger.Debug("meeting inserted", zap.Int64("meeting_id", rec.ID))
	return rec.ID, nil
}

func (r *meetingRepository) InsertActions(ctx context.Context, meetingID int64, drafts []entities.ActionItemExtracted) ([]*entities.ActionItem, error) {
	var items []*entities.ActionItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		items, err = insertActions(tx, meetingID, drafts)
		return err
	})
	if err != nil {
		if errors.Is(err, entities.ErrMeetingNotFound) {
			return nil, err
		}
		return nil, storageErr("insert actions", err)
	}
	r.logger.Debug("actions inserted", zap.Int64("meeting_id", meetingID), zap.Int("count", len(items)))
	return items, nil
}

func (r *meetingRepository) SaveMeeting(ctx context.Context, rec *entities.MeetingRecord, drafts []entities.ActionItemExtracted) (int64, error) {
	if rec == nil {
		return 0, storageErr("save meeting", errors.New("record cannot be nil"))
	}
	// Identity and creation time always come from the store
	rec.ID = 0
	rec.CreatedAt = time.Time{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		_, err := insertActions(tx, rec.ID, drafts)
		return err
	})
	if err != nil {
		rec.ID = 0
		return 0, storageErr("save meeting", err)
	}
	r.logger.Debug("meeting saved", zap.Int64("meeting_id", rec.ID), zap.Int("actions", len(drafts)))
	return rec.ID, nil
}

// insertActions must run inside a transaction
func insertActions(tx *gorm.DB, meetingID int64, drafts []entities.ActionItemExtracted) ([]*entities.ActionItem, error) {
	var parents int64
	if err := tx.Model(&entities.MeetingRecord{}).Where("id = ?", meetingID).Count(&parents).Error; err != nil {
		return nil, err
	}
	if parents == 0 {
		return nil, entities.ErrMeetingNotFound
	}

	items := make([]*entities.ActionItem, 0, len(drafts))
	for _, d := range drafts {
		items = append(items, entities.NewActionItem(meetingID, d))
	}
	if len(items) == 0 {
		return items, nil
	}
	if err := tx.Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *meetingRepository) ListMeetings(ctx context.Context) ([]*entities.MeetingListItem, error) {
	items := make([]*entities.MeetingListItem, 0)
	if err := r.db.WithContext(ctx).
		Model(&entities.MeetingRecord{}).
		Select("id", "title", "meeting_date", "duration_sec", "model_used", "created_at").
		Order("created_at DESC").
		Order("id DESC").
		Find(&items).Error; err != nil {
		return nil, storageErr("list meetings", err)
	}
	return items, nil
}

func (r *meetingRepository) GetMeeting(ctx context.Context, id int64) (*entities.MeetingRecord, error) {
	var rec entities.MeetingRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, storageErr("get meeting", err)
	}
	return &rec, nil
}

func (r *meetingRepository) GetActions(ctx context.Context, meetingID int64) ([]*entities.ActionItem, error) {
	items := make([]*entities.ActionItem, 0)
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, storageErr("get actions", err)
	}
	return items, nil
}

func (r *meetingRepository) UpdateActionStatus(ctx context.Context, actionID int64, status entities.ActionItemStatus) error {
	if !status.IsValid() {
		return entities.ErrInvalidStatus
	}
	res := r.db.WithContext(ctx).
		Model(&entities.ActionItem{}).
		Where("id = ?", actionID).
		Update("status", string(status))
	if res.Error != nil {
		return storageErr("update action status", res.Error)
	}
	if res.RowsAffected == 0 {
		return entities.ErrActionNotFound
	}
	r.logger.Debug("action status updated", zap.Int64("action_id", actionID), zap.String("status", string(status)))
	return nil
}

func (r *meetingRepository) DeleteMeeting(ctx context.Context, id int64) error {
	// Dependents go first so the outcome does not rely on engine-level cascade
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", id).Delete(&entities.ActionItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.MeetingRecord{}).Error
	})
	if err != nil {
		return storageErr("delete meeting", err)
	}
	r.logger.Debug("meeting deleted", zap.Int64("meeting_id", id))
	return nil
}

func (r *meetingRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return storageErr("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return storageErr("ping", err)
	}
	return nil
}
