package repository

import "gorm.io/gorm"

// Repository aggregates every data-access interface.
type Repository struct {
	NC         NCRepository
	User       UserRepository
	Inspection InspectionRepository
}

// NewRepository builds the repository aggregate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		NC:         NewNCRepo(db),
		User:       NewUserRepo(db),
		Inspection: NewInspectionRepo(db),
	}
}
