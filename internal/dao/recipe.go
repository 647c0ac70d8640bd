package dao

import (
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/classic-cipher-go/internal/cache"
	"github.com/classic-cipher-go/internal/cipher"
	"github.com/classic-cipher-go/internal/storage"
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrRecipeInvalid  = errors.New("recipe needs a name and at least one stage")
)

// Recipe is a named, persisted pipeline: an ordered stage list applied
// forward to encrypt and in reverse to decrypt.
type Recipe struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Stages      []cipher.Stage `json:"stages"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// RecipeDAO handles recipe persistence with a read-through cache
type RecipeDAO struct {
	store *storage.Store
	cache *cache.Cache
}

// NewRecipeDAO creates a new recipe DAO
func NewRecipeDAO(store *storage.Store) *RecipeDAO {
	return &RecipeDAO{
		store: store,
		cache: cache.New(10*time.Minute, 256),
	}
}

// Get retrieves a recipe from cache or store
func (d *RecipeDAO) Get(name string) (*Recipe, error) {
	if cached, ok := d.cache.Get(name); ok {
		return cached.(*Recipe), nil
	}

	var recipe Recipe
	if err := d.store.GetJSON(storage.BucketRecipes, name, &recipe); err != nil {
		return nil, err
	}
	if recipe.Name == "" {
		return nil, ErrRecipeNotFound
	}

	d.cache.Set(name, &recipe)
	return &recipe, nil
}

// Save creates or updates a recipe. The original creation time survives
// an update; only UpdatedAt moves.
func (d *RecipeDAO) Save(recipe *Recipe) error {
	if recipe.Name == "" || len(recipe.Stages) == 0 {
		return ErrRecipeInvalid
	}

	now := time.Now()
	recipe.UpdatedAt = now
	recipe.CreatedAt = now
	if existing, err := d.Get(recipe.Name); err == nil {
		recipe.CreatedAt = existing.CreatedAt
	}

	d.cache.Set(recipe.Name, recipe)
	return d.store.SetJSON(storage.BucketRecipes, recipe.Name, recipe)
}

// Delete removes a recipe
func (d *RecipeDAO) Delete(name string) error {
	if _, err := d.Get(name); err != nil {
		return err
	}
	d.cache.Delete(name)
	return d.store.Delete(storage.BucketRecipes, name)
}

// List retrieves all recipes sorted by name
func (d *RecipeDAO) List() ([]*Recipe, error) {
	data, err := d.store.GetAll(storage.BucketRecipes)
	if err != nil {
		return nil, err
	}

	result := make([]*Recipe, 0, len(data))
	for _, v := range data {
		var recipe Recipe
		if err := json.Unmarshal(v, &recipe); err == nil {
			result = append(result, &recipe)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
