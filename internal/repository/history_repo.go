package repository

import (
	"context"
	"time"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
)

// HistoryRepository appends booking audit rows. There are deliberately
// no update or delete methods: history is append-only.
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

type historyModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	BookingID  int64     `gorm:"column:booking_id"`
	FromStatus string    `gorm:"column:from_status"`
	ToStatus   string    `gorm:"column:to_status"`
	ActorID    int64     `gorm:"column:actor_id"`
	Note       *string   `gorm:"column:note"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (historyModel) TableName() string { return "booking_status_history" }

func (r *HistoryRepository) Append(ctx context.Context, h *domain.StatusHistory) error {
	m := historyModel{
		BookingID:  h.BookingID,
		FromStatus: string(h.FromStatus),
		ToStatus:   string(h.ToStatus),
		ActorID:    h.ActorID,
	}
	if h.Note != "" {
		v := h.Note
		m.Note = &v
	}
	if tx := conn(ctx, r.db).Create(&m); tx.Error != nil {
		return tx.Error
	}
	h.ID = m.ID
	h.CreatedAt = m.CreatedAt
	return nil
}

func (r *HistoryRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.StatusHistory, error) {
	var rows []historyModel
	tx := conn(ctx, r.db).Where("booking_id = ?", bookingID).Order("id").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.StatusHistory, 0, len(rows))
	for _, m := range rows {
		h := domain.StatusHistory{
			ID:         m.ID,
			BookingID:  m.BookingID,
			FromStatus: domain.BookingStatus(m.FromStatus),
			ToStatus:   domain.BookingStatus(m.ToStatus),
			ActorID:    m.ActorID,
			CreatedAt:  m.CreatedAt,
		}
		if m.Note != nil {
			h.Note = *m.Note
		}
		out = append(out, h)
	}
	return out, nil
}

type noteModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	BookingID int64     `gorm:"column:booking_id"`
	AuthorID  int64     `gorm:"column:author_id"`
	Text      string    `gorm:"column:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (noteModel) TableName() string { return "booking_notes" }

func (r *HistoryRepository) AddNote(ctx context.Context, n *domain.BookingNote) error {
	m := noteModel{BookingID: n.BookingID, AuthorID: n.AuthorID, Text: n.Text}
	if tx := conn(ctx, r.db).Create(&m); tx.Error != nil {
		return tx.Error
	}
	n.ID = m.ID
	n.CreatedAt = m.CreatedAt
	return nil
}

func (r *HistoryRepository) ListNotes(ctx context.Context, bookingID int64) ([]domain.BookingNote, error) {
	var rows []noteModel
	tx := conn(ctx, r.db).Where("booking_id = ?", bookingID).Order("id").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.BookingNote, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.BookingNote{
			ID:        m.ID,
			BookingID: m.BookingID,
			AuthorID:  m.AuthorID,
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}
