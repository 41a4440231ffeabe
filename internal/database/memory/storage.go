package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
)

// Storage это потокобезопасное хранилище в памяти.
// Реализует ports.UserStorage, ports.RecipeStorage и ports.Pinger.
// Используется в тестах и при STORE_DRIVER=memory.
type Storage struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]domain.User
	emails  map[string]uuid.UUID
	recipes map[uuid.UUID]*domain.Recipe
}

func NewStorage() *Storage {
	return &Storage{
		users:   make(map[uuid.UUID]domain.User),
		emails:  make(map[string]uuid.UUID),
		recipes: make(map[uuid.UUID]*domain.Recipe),
	}
}

func (s *Storage) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Storage) CreateUser(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.emails[user.Email]; ok {
		return domain.ErrEmailTaken
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	s.users[user.ID] = *user
	s.emails[user.Email] = user.ID
	return nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := s.users[id]
	return &u, nil
}

func (s *Storage) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (s *Storage) SaveRecipe(ctx context.Context, recipe *domain.Recipe) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}
	if _, ok := s.recipes[recipe.ID]; ok {
		return fmt.Errorf("recipe %s already exists", recipe.ID)
	}
	s.recipes[recipe.ID] = cloneRecipe(recipe)
	return nil
}

func (s *Storage) GetRecipeByID(ctx context.Context, id uuid.UUID) (*domain.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, domain.ErrRecipeNotFound
	}
	return cloneRecipe(r), nil
}

// ListRecipes возвращает рецепты в порядке создания
func (s *Storage) ListRecipes(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Recipe, 0)
	for _, r := range s.recipes {
		if filter.Matches(r) {
			out = append(out, *cloneRecipe(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Storage) UpdateRecipe(ctx context.Context, recipe *domain.Recipe) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.recipes[recipe.ID]
	if !ok {
		return domain.ErrRecipeNotFound
	}

	next := cloneRecipe(recipe)
	next.Ratings = cur.Ratings
	next.CreatedAt = cur.CreatedAt
	s.recipes[recipe.ID] = next
	return nil
}

func (s *Storage) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return domain.ErrRecipeNotFound
	}
	delete(s.recipes, id)
	return nil
}

func (s *Storage) AddRating(ctx context.Context, recipeID uuid.UUID, rating domain.Rating) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[recipeID]
	if !ok {
		return domain.ErrRecipeNotFound
	}
	if err := r.AddRating(rating.UserID, rating.Rating); err != nil {
		return err
	}
	r.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Storage) UpdateRating(ctx context.Context, recipeID uuid.UUID, rating domain.Rating) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[recipeID]
	if !ok {
		return domain.ErrRecipeNotFound
	}
	if err := r.UpdateRating(rating.UserID, rating.Rating); err != nil {
		return err
	}
	r.UpdatedAt = time.Now().UTC()
	return nil
}

func cloneRecipe(r *domain.Recipe) *domain.Recipe {
	c := *r
	c.Ingredients = append(make([]string, 0, len(r.Ingredients)), r.Ingredients...)
	c.Instructions = append(make([]string, 0, len(r.Instructions)), r.Instructions...)
	c.Ratings = append(make([]domain.Rating, 0, len(r.Ratings)), r.Ratings...)
	return &c
}
