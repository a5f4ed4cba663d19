package services

import (
	"context"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eco-swift-backend/apperr"
	"eco-swift-backend/models"
	"eco-swift-backend/utils"
)

// CategoryInput is the validated createCategory argument.
type CategoryInput struct {
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// CategoryUpdateInput carries the optional updateCategory fields.
type CategoryUpdateInput struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
}

// CategoryService manages the category catalog. All mutations require the
// ADMIN role, read from the caller's user document.
type CategoryService struct {
	categories CategoryStore
	products   ProductStore
	users      UserStore
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categories CategoryStore, products ProductStore, users UserStore) *CategoryService {
	return &CategoryService{categories: categories, products: products, users: users}
}

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[\s_-]+`)
	slugTrim     = regexp.MustCompile(`^-+|-+$`)
)

// GenerateSlug derives a URL slug from a category name: lowercase, trimmed,
// special characters stripped, whitespace/underscore/hyphen runs collapsed
// to a single hyphen. Deterministic and idempotent.
func GenerateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugCollapse.ReplaceAllString(slug, "-")
	return slugTrim.ReplaceAllString(slug, "")
}

// CreateCategory creates a category with an explicit or name-derived slug.
func (s *CategoryService) CreateCategory(ctx context.Context, claims *utils.Claims, input CategoryInput) (*models.Category, error) {
	if err := s.requireAdmin(ctx, claims, "Only admins can create categories"); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	slug := input.Slug
	if slug == "" {
		slug = GenerateSlug(input.Name)
	}
	taken, err := s.categories.SlugTaken(ctx, slug, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Category with this slug already exists")
	}

	category := &models.Category{
		Name:        input.Name,
		Slug:        slug,
		Description: input.Description,
	}
	if err := s.categories.Insert(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory updates name, slug and/or description. A name change
// without an explicit slug re-derives the slug from the new name.
func (s *CategoryService) UpdateCategory(ctx context.Context, claims *utils.Claims, categoryID string, input CategoryUpdateInput) (*models.Category, error) {
	if err := s.requireAdmin(ctx, claims, "Only admins can update categories"); err != nil {
		return nil, err
	}
	id, err := parseID(categoryID, "category")
	if err != nil {
		return nil, err
	}
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return nil, err
	}

	set := bson.M{}
	if input.Name != nil && *input.Name != "" {
		set["name"] = *input.Name
	}
	switch {
	case input.Slug != nil && *input.Slug != "":
		taken, err := s.categories.SlugTaken(ctx, *input.Slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("Category with this slug already exists")
		}
		set["slug"] = *input.Slug
	case input.Name != nil && *input.Name != "":
		set["slug"] = GenerateSlug(*input.Name)
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if len(set) == 0 {
		return s.categories.FindByID(ctx, id)
	}

	return s.categories.Update(ctx, id, set)
}

// DeleteCategory removes a category; it fails while any product still
// references it.
func (s *CategoryService) DeleteCategory(ctx context.Context, claims *utils.Claims, categoryID string) (bool, error) {
	if err := s.requireAdmin(ctx, claims, "Only admins can delete categories"); err != nil {
		return false, err
	}
	id, err := parseID(categoryID, "category")
	if err != nil {
		return false, err
	}
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return false, err
	}

	count, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, apperr.Validationf("Cannot delete category. It has %d product(s) associated with it.", count)
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

// Categories lists every category. Public.
func (s *CategoryService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// Category returns a category by id. Public.
func (s *CategoryService) Category(ctx context.Context, categoryID string) (*models.Category, error) {
	id, err := parseID(categoryID, "category")
	if err != nil {
		return nil, err
	}
	return s.categories.FindByID(ctx, id)
}

// CategoryBySlug returns a category by slug. Public.
func (s *CategoryService) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.categories.FindBySlug(ctx, slug)
}

func (s *CategoryService) requireAdmin(ctx context.Context, claims *utils.Claims, denied string) error {
	caller, err := callerID(claims)
	if err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, caller)
	if err != nil {
		return apperr.NotAuthorized(denied)
	}
	if user.Role != models.RoleAdmin {
		return apperr.NotAuthorized(denied)
	}
	return nil
}
