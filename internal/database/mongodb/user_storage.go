package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserStorage реализует ports.UserStorage поверх коллекции users
type UserStorage struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

func NewUserStorage(db *mongo.Database, logger *slog.Logger) *UserStorage {
	return &UserStorage{coll: db.Collection(usersCollection), logger: logger}
}

// CreateUser полагается на уникальный индекс по email
func (s *UserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	if _, err := s.coll.InsertOne(ctx, toUserDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			s.logger.Warn("email already registered", "email", user.Email)
			return domain.ErrEmailTaken
		}
		s.logger.Error("failed to insert user", "error", err)
		return fmt.Errorf("insert user: %w", err)
	}

	s.logger.Info("user created successfully",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *UserStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *UserStorage) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"_id": id.String()})
}

func (s *UserStorage) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	start := time.Now()

	var doc userDocument
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		s.logger.Error("failed to find user", "error", err)
		return nil, fmt.Errorf("find user: %w", err)
	}

	user, err := doc.toDomain()
	if err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}

	s.logger.Debug("user retrieved", "user_id", user.ID, "duration_ms", time.Since(start).Milliseconds())
	return user, nil
}
