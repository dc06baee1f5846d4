package mysql

import (
	"agrolend-backend/internal/domain/harvest"
	"agrolend-backend/internal/domain/inputrequest"
	"agrolend-backend/internal/domain/loan"
	"agrolend-backend/internal/domain/message"
	"agrolend-backend/internal/domain/repayment"
	"agrolend-backend/internal/domain/user"

	"gorm.io/gorm"
)

// Models lists every table owned by the ledger store.
func Models() []any {
	return []any{
		&user.User{},
		&harvest.Harvest{},
		&loan.Loan{},
		&repayment.Repayment{},
		&inputrequest.InputRequest{},
		&inputrequest.Item{},
		&message.Message{},
	}
}

func AutoMigrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }
