package dao

import (
	"errors"
	"testing"

	"github.com/classic-cipher-go/internal/cipher"
)

func testRecipe(name string) *Recipe {
	return &Recipe{
		Name:        name,
		Description: "caesar then vigenere",
		Stages: []cipher.Stage{
			{Kind: cipher.KindCaesar, Key: "3"},
			{Kind: cipher.KindVigenere, Key: "KEY"},
		},
	}
}

func TestRecipeSaveGetDelete(t *testing.T) {
	d := NewRecipeDAO(newTestStore(t))

	if err := d.Save(testRecipe("classic")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := d.Get("classic")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "classic" || len(got.Stages) != 2 {
		t.Errorf("Get() = %+v", got)
	}
	if got.Stages[0].Kind != cipher.KindCaesar || got.Stages[0].Key != "3" {
		t.Errorf("stage 0 = %+v", got.Stages[0])
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not set on save")
	}

	if err := d.Delete("classic"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := d.Get("classic"); !errors.Is(err, ErrRecipeNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrRecipeNotFound", err)
	}
	if err := d.Delete("classic"); !errors.Is(err, ErrRecipeNotFound) {
		t.Errorf("Delete() missing recipe error = %v, want ErrRecipeNotFound", err)
	}
}

func TestRecipeUpdateKeepsCreationTime(t *testing.T) {
	d := NewRecipeDAO(newTestStore(t))

	if err := d.Save(testRecipe("classic")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	first, err := d.Get("classic")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	updated := testRecipe("classic")
	updated.Description = "rotated"
	if err := d.Save(updated); err != nil {
		t.Fatalf("Save() update error = %v", err)
	}

	second, err := d.Get("classic")
	if err != nil {
		t.Fatalf("Get() after update error = %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed on update: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if second.Description != "rotated" {
		t.Errorf("Description = %q, want rotated", second.Description)
	}
}

func TestRecipeSaveValidation(t *testing.T) {
	d := NewRecipeDAO(newTestStore(t))

	if err := d.Save(&Recipe{Name: "", Stages: testRecipe("x").Stages}); !errors.Is(err, ErrRecipeInvalid) {
		t.Errorf("Save() without name error = %v, want ErrRecipeInvalid", err)
	}
	if err := d.Save(&Recipe{Name: "empty"}); !errors.Is(err, ErrRecipeInvalid) {
		t.Errorf("Save() without stages error = %v, want ErrRecipeInvalid", err)
	}
}

func TestRecipeListSorted(t *testing.T) {
	d := NewRecipeDAO(newTestStore(t))

	for _, name := range []string{"zulu", "alpha", "mike"} {
		if err := d.Save(testRecipe(name)); err != nil {
			t.Fatalf("Save(%s) error = %v", name, err)
		}
	}

	list, err := d.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List() returned %d recipes, want 3", len(list))
	}
	for i, want := range []string{"alpha", "mike", "zulu"} {
		if list[i].Name != want {
			t.Errorf("List()[%d] = %q, want %q", i, list[i].Name, want)
		}
	}
}
