package services

import (
	"cashier/models"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var forUpdate = clause.Locking{Strength: "UPDATE"}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type ListQuery struct {
	Status string `query:"status"`
	Search string `query:"search"`
	UserID uint   `query:"userId"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

func (q *ListQuery) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageLimit
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}
	q.Status = strings.ToLower(strings.TrimSpace(q.Status))
	q.Search = strings.TrimSpace(q.Search)
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// paginate applies the shared status/search/user filters. Search matches the
// request transaction id or the owner's phone.
func paginate[T any](db *gorm.DB, q ListQuery) (Page[T], error) {
	q.normalize()

	if q.Status != "" {
		switch models.RequestStatus(q.Status) {
		case models.StatusPending, models.StatusApproved, models.StatusRejected:
		default:
			return Page[T]{}, ValidationError("unknown status %q", q.Status)
		}
		db = db.Where("status = ?", q.Status)
	}
	if q.UserID != 0 {
		db = db.Where("user_id = ?", q.UserID)
	}
	if q.Search != "" {
		like := "%" + strings.ToLower(q.Search) + "%"
		db = db.Where(
			"(LOWER(transaction_id) LIKE ? OR user_id IN (?))",
			like,
			db.Session(&gorm.Session{NewDB: true}).Model(&models.User{}).Select("id").Where("phone LIKE ?", like),
		)
	}

	var total int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Page[T]{}, fmt.Errorf("count: %w", err)
	}

	data := make([]T, 0, q.Limit)
	if err := db.Preload("User").Preload("Method").
		Order("created_at DESC, id DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&data).Error; err != nil {
		return Page[T]{}, fmt.Errorf("list: %w", err)
	}

	return Page[T]{
		Data: data,
		Pagination: Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: int((total + int64(q.Limit) - 1) / int64(q.Limit)),
		},
	}, nil
}
