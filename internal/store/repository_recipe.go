package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/MKhiriev/go-recipe-keeper/models"
)

// recipeRepository is the SQL implementation of [RecipeRepository]. It owns
// the "recipes" table and the recipe_tags / recipe_ingredients link tables,
// and get-or-creates tags and ingredients named in recipe writes.
//
// Every statement carries the owner id in its WHERE clause, so a recipe of
// another user behaves exactly like a missing one.
type recipeRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewRecipeRepository constructs a [RecipeRepository] backed by db.
func NewRecipeRepository(db *DB, logger *logger.Logger) RecipeRepository {
	logger.Debug().Msg("creating recipe repository")
	return &recipeRepository{
		db:     db,
		logger: logger,
	}
}

func scanRecipe(row rowScanner) (models.Recipe, error) {
	var rc models.Recipe
	err := row.Scan(
		&rc.ID,
		&rc.UserID,
		&rc.Title,
		&rc.Description,
		&rc.TimeMinutes,
		&rc.Price,
		&rc.Link,
		&rc.ImagePath,
		&rc.CreatedAt,
	)
	return rc, err
}

// ListRecipes returns the owner's recipes ordered by id descending with their
// tags and ingredients attached.
func (r *recipeRepository) ListRecipes(ctx context.Context, filter models.RecipeFilter) ([]models.Recipe, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListRecipesQuery(r.db.builder(), filter)
	if err != nil {
		log.Err(err).Str("func", "recipeRepository.ListRecipes").Int64("user_id", filter.UserID).Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "recipeRepository.ListRecipes").
			Int64("user_id", filter.UserID).
			Int("tag_ids", len(filter.TagIDs)).
			Int("ingredient_ids", len(filter.IngredientIDs)).
			Msg("failed to execute query for listing recipes")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	recipes := make([]models.Recipe, 0, 16)
	for rows.Next() {
		rc, scanErr := scanRecipe(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "recipeRepository.ListRecipes").Int64("user_id", filter.UserID).Msg("failed to scan recipe row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		recipes = append(recipes, rc)
	}
	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "recipeRepository.ListRecipes").Int64("user_id", filter.UserID).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	// release the connection before the attribute queries; SQLite has one
	rows.Close()

	if err = r.loadAttributes(ctx, r.db, recipes); err != nil {
		return nil, err
	}

	return recipes, nil
}

// GetRecipe returns one owned recipe or [ErrRecipeNotFound].
func (r *recipeRepository) GetRecipe(ctx context.Context, userID, recipeID int64) (models.Recipe, error) {
	return r.getRecipe(ctx, r.db, userID, recipeID)
}

func (r *recipeRepository) getRecipe(ctx context.Context, q queryer, userID, recipeID int64) (models.Recipe, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetRecipeQuery(r.db.builder(), userID, recipeID)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rc, err := scanRecipe(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Recipe{}, ErrRecipeNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "recipeRepository.getRecipe").
			Int64("user_id", userID).
			Int64("recipe_id", recipeID).
			Msg("failed to scan recipe row")
		return models.Recipe{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	recipes := []models.Recipe{rc}
	if err = r.loadAttributes(ctx, q, recipes); err != nil {
		return models.Recipe{}, err
	}

	return recipes[0], nil
}

// loadAttributes fills Tags and Ingredients of every recipe with one query
// per attribute kind.
func (r *recipeRepository) loadAttributes(ctx context.Context, q queryer, recipes []models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]int64, len(recipes))
	index := make(map[int64]int, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
		index[recipes[i].ID] = i
		recipes[i].Tags = []models.Attribute{}
		recipes[i].Ingredients = []models.Attribute{}
	}

	for _, kind := range []models.AttributeKind{models.KindTag, models.KindIngredient} {
		if err := r.loadAttributesOfKind(ctx, q, kind, ids, func(recipeID int64, a models.Attribute) {
			i := index[recipeID]
			a.UserID = recipes[i].UserID
			if kind == models.KindTag {
				recipes[i].Tags = append(recipes[i].Tags, a)
			} else {
				recipes[i].Ingredients = append(recipes[i].Ingredients, a)
			}
		}); err != nil {
			return err
		}
	}

	return nil
}

func (r *recipeRepository) loadAttributesOfKind(ctx context.Context, q queryer, kind models.AttributeKind, recipeIDs []int64, add func(int64, models.Attribute)) error {
	log := logger.FromContext(ctx)

	query, args, err := buildRecipeAttributesQuery(r.db.builder(), attributeTables[kind], recipeIDs)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "recipeRepository.loadAttributesOfKind").Str("kind", kind.String()).Msg("failed to load recipe attributes")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID int64
		a := models.Attribute{Kind: kind}
		if err = rows.Scan(&recipeID, &a.ID, &a.Name); err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		add(recipeID, a)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return nil
}

// CreateRecipe inserts the recipe and its links in one transaction, then
// reads it back.
func (r *recipeRepository) CreateRecipe(ctx context.Context, userID int64, input models.RecipeInput) (models.Recipe, error) {
	log := logger.FromContext(ctx)

	recipe := models.Recipe{UserID: userID}
	if input.Title != nil {
		recipe.Title = *input.Title
	}
	if input.Description != nil {
		recipe.Description = *input.Description
	}
	if input.TimeMinutes != nil {
		recipe.TimeMinutes = *input.TimeMinutes
	}
	if input.Price != nil {
		recipe.Price = *input.Price
	}
	if input.Link != nil {
		recipe.Link = *input.Link
	}

	query, args, err := buildInsertRecipeQuery(r.db.builder(), recipe)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var recipeID int64
	err = r.db.withTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&recipeID); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		return r.replaceAllLinks(ctx, tx, userID, recipeID, input)
	})
	if err != nil {
		log.Err(err).Str("func", "recipeRepository.CreateRecipe").Int64("user_id", userID).Msg("failed to create recipe")
		return models.Recipe{}, err
	}

	return r.GetRecipe(ctx, userID, recipeID)
}

// UpdateRecipe changes the present fields of an owned recipe in one
// transaction, then reads it back.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, userID, recipeID int64, input models.RecipeInput) (models.Recipe, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateRecipeQuery(r.db.builder(), userID, recipeID, input)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = r.db.withTx(ctx, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx, query, args...).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRecipeNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		return r.replaceAllLinks(ctx, tx, userID, recipeID, input)
	})
	if err != nil {
		if !errors.Is(err, ErrRecipeNotFound) {
			log.Err(err).
				Str("func", "recipeRepository.UpdateRecipe").
				Int64("user_id", userID).
				Int64("recipe_id", recipeID).
				Msg("failed to update recipe")
		}
		return models.Recipe{}, err
	}

	return r.GetRecipe(ctx, userID, recipeID)
}

func (r *recipeRepository) replaceAllLinks(ctx context.Context, q queryer, userID, recipeID int64, input models.RecipeInput) error {
	if input.Tags != nil {
		if err := r.replaceLinks(ctx, q, models.KindTag, userID, recipeID, *input.Tags); err != nil {
			return err
		}
	}
	if input.Ingredients != nil {
		if err := r.replaceLinks(ctx, q, models.KindIngredient, userID, recipeID, *input.Ingredients); err != nil {
			return err
		}
	}
	return nil
}

// replaceLinks makes names the complete attribute set of the recipe.
func (r *recipeRepository) replaceLinks(ctx context.Context, q queryer, kind models.AttributeKind, userID, recipeID int64, names []models.AttributeInput) error {
	t := attributeTables[kind]
	b := r.db.builder()

	query, args, err := buildClearLinksQuery(b, t, recipeID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	ids := make([]int64, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n.Name]; dup {
			continue
		}
		seen[n.Name] = struct{}{}

		id, err := r.getOrCreateAttribute(ctx, q, t, userID, n.Name)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil
	}

	query, args, err = buildInsertLinksQuery(b, t, recipeID, ids)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// getOrCreateAttribute inserts (userID, name) unless it exists and returns
// the row id. Concurrent writers converge on the same row.
func (r *recipeRepository) getOrCreateAttribute(ctx context.Context, q queryer, t attributeTable, userID int64, name string) (int64, error) {
	b := r.db.builder()

	query, args, err := buildInsertAttributeIgnoreQuery(b, t, userID, name)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = q.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	query, args, err = buildFindAttributeIDQuery(b, t, userID, name)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var id int64
	if err = q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return id, nil
}

// DeleteRecipe removes an owned recipe. Links go with it through the
// foreign key cascade; tags and ingredients stay.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, userID, recipeID int64) (string, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteRecipeQuery(r.db.builder(), userID, recipeID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var image string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&image)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrRecipeNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "recipeRepository.DeleteRecipe").
			Int64("user_id", userID).
			Int64("recipe_id", recipeID).
			Msg("failed to delete recipe")
		return "", fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return image, nil
}

// SetRecipeImage swaps the image key of an owned recipe and returns the old
// one, empty when there was none.
func (r *recipeRepository) SetRecipeImage(ctx context.Context, userID, recipeID int64, imageKey string) (string, error) {
	log := logger.FromContext(ctx)
	b := r.db.builder()

	selectQuery, selectArgs, err := buildSelectRecipeImageQuery(b, userID, recipeID, r.db.dialect == DialectPostgres)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	updateQuery, updateArgs, err := buildSetRecipeImageQuery(b, userID, recipeID, imageKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var old string
	err = r.db.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, selectQuery, selectArgs...).Scan(&old)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRecipeNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		if _, err = tx.ExecContext(ctx, updateQuery, updateArgs...); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrRecipeNotFound) {
			log.Err(err).
				Str("func", "recipeRepository.SetRecipeImage").
				Int64("user_id", userID).
				Int64("recipe_id", recipeID).
				Msg("failed to set recipe image")
		}
		return "", err
	}

	return old, nil
}
