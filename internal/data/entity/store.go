package entity

import "github.com/google/uuid"

type Store struct {
	Base
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Address   string    `db:"address"`
	OwnerID   uuid.UUID `db:"owner_id"`
	AvgRating float64   `db:"avg_rating"`
}

type StoreFilter struct {
	Name    string
	Address string
	OwnerID *uuid.UUID
	Sort    string // name, address, avg_rating
	Desc    bool
}
