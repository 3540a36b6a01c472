package db

import (
	"log"
	"sync"
	"time"

	"github.com/JKozubekINF1/dart-counter/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store persists users and finished match records. If the database cannot
// be opened it degrades to an empty in-memory store: gameplay continues and
// stats simply stop surviving restarts.
type Store struct {
	db *gorm.DB

	mutex   sync.RWMutex
	users   map[string]models.User
	records []models.MatchRecord
}

// NewStore opens (or creates) the sqlite database at path and migrates the
// schema. Any failure is logged and answered with the in-memory fallback.
func NewStore(path string) *Store {
	s := &Store{users: make(map[string]models.User)}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Printf("Could not open database %q, using in-memory store: %v", path, err)
		return s
	}
	if err := gdb.AutoMigrate(&models.User{}, &models.MatchRecord{}); err != nil {
		log.Printf("Could not migrate database, using in-memory store: %v", err)
		return s
	}

	s.db = gdb
	return s
}

// CreateUser registers a new user.
func (s *Store) CreateUser(name string) (*models.User, error) {
	if name == "" {
		return nil, models.ErrInvalidUserName
	}
	user := models.User{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	if s.db != nil {
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.users[user.ID] = user
	return &user, nil
}

// ListUsers returns all registered users.
func (s *Store) ListUsers() ([]models.User, error) {
	if s.db != nil {
		var users []models.User
		if err := s.db.Order("created_at").Find(&users).Error; err != nil {
			return nil, err
		}
		return users, nil
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	return users, nil
}

// DeleteUser removes a user. Their match records are kept; the records own
// frozen copies of the identity.
func (s *Store) DeleteUser(id string) error {
	if s.db != nil {
		res := s.db.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrUserNotFound
		}
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.users[id]; !exists {
		return models.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

// AppendMatchRecord writes one finished match. Records are append-only and
// never updated afterwards.
func (s *Store) AppendMatchRecord(rec *models.MatchRecord) error {
	if s.db != nil {
		return s.db.Create(rec).Error
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.records = append(s.records, *rec)
	return nil
}

// ListMatchRecords returns every persisted match, oldest first.
func (s *Store) ListMatchRecords() ([]models.MatchRecord, error) {
	if s.db != nil {
		var records []models.MatchRecord
		if err := s.db.Order("date").Find(&records).Error; err != nil {
			return nil, err
		}
		return records, nil
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return append([]models.MatchRecord{}, s.records...), nil
}
