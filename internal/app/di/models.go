package di

import (
	authadapters "papertrade/internal/feature/auth/adapters"
	authentity "papertrade/internal/feature/auth/domain/entity"
	portfolioadapters "papertrade/internal/feature/portfolio/adapters"
)

// Models lists every gorm model to migrate, users first.
func Models() []interface{} {
	return []interface{}{
		&authentity.User{},
		&authadapters.SessionModel{},
		&portfolioadapters.TransactionModel{},
	}
}
