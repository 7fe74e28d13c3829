package repository

import "hotelbooking/internal/domain"

// Models lists every persisted model for schema auto-migration in
// local SQLite development. PostgreSQL schemas come from SQL migrations
// instead, since AutoMigrate cannot express the stay exclusion constraint.
func Models() []any {
	return []any{
		&domain.Hotel{},
		&domain.RoomType{},
		&domain.Room{},
		&domain.RoomPolicy{},
		&bookingModel{},
		&stayModel{},
		&historyModel{},
		&noteModel{},
		&paymentModel{},
		&discountCodeModel{},
		&promotionModel{},
		&usageModel{},
		&emailModel{},
	}
}
