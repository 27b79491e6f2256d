package store

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-recipe-keeper/models"
	sq "github.com/Masterminds/squirrel"
)

var (
	userColumns   = []string{"id", "email", "password", "name", "is_active", "is_staff", "is_superuser", "created_at"}
	recipeColumns = []string{"id", "user_id", "title", "description", "time_minutes", "price", "link", "image", "created_at"}
)

// attributeTable describes where one attribute kind lives.
type attributeTable struct {
	table      string
	linkTable  string
	linkColumn string
}

var attributeTables = map[models.AttributeKind]attributeTable{
	models.KindTag:        {table: "tags", linkTable: "recipe_tags", linkColumn: "tag_id"},
	models.KindIngredient: {table: "ingredients", linkTable: "recipe_ingredients", linkColumn: "ingredient_id"},
}

func tableFor(kind models.AttributeKind) (attributeTable, error) {
	t, ok := attributeTables[kind]
	if !ok {
		return attributeTable{}, fmt.Errorf("%w: %d", ErrUnknownAttributeKind, kind)
	}
	return t, nil
}

// ── users ────────────────────────────────────────────────────────────────────

func buildCreateUserQuery(b sq.StatementBuilderType, user models.User) (string, []any, error) {
	return b.Insert(user.TableName()).
		Columns("email", "password", "name", "is_active", "is_staff", "is_superuser").
		Values(user.Email, user.Password, user.Name, user.IsActive, user.IsStaff, user.IsSuperuser).
		Suffix("RETURNING id, created_at").
		ToSql()
}

func buildFindUserQuery(b sq.StatementBuilderType, where sq.Eq) (string, []any, error) {
	return b.Select(userColumns...).
		From(models.User{}.TableName()).
		Where(where).
		ToSql()
}

func buildUpdateUserQuery(b sq.StatementBuilderType, user models.User) (string, []any, error) {
	return b.Update(user.TableName()).
		Set("name", user.Name).
		Set("password", user.Password).
		Where(sq.Eq{"id": user.UserID}).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		ToSql()
}

// ── tokens ───────────────────────────────────────────────────────────────────

func buildUpsertTokenQuery(b sq.StatementBuilderType, userID int64, key string) (string, []any, error) {
	return b.Insert("tokens").
		Columns("user_id", "key").
		Values(userID, key).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET key = excluded.key, created_at = CURRENT_TIMESTAMP").
		ToSql()
}

func buildFindTokenKeyQuery(b sq.StatementBuilderType, userID int64) (string, []any, error) {
	return b.Select("key").
		From("tokens").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}

// ── recipes ──────────────────────────────────────────────────────────────────

// buildListRecipesQuery selects the owner's recipes. Each non-empty id list
// adds a membership subquery on its link table, so a recipe matches when it
// shares at least one tag AND at least one ingredient with the filter.
func buildListRecipesQuery(b sq.StatementBuilderType, filter models.RecipeFilter) (string, []any, error) {
	query := b.Select(recipeColumns...).
		From(models.Recipe{}.TableName()).
		Where(sq.Eq{"user_id": filter.UserID})

	if len(filter.TagIDs) > 0 {
		query = query.Where(linkedRecipesExpr(attributeTables[models.KindTag], filter.TagIDs))
	}
	if len(filter.IngredientIDs) > 0 {
		query = query.Where(linkedRecipesExpr(attributeTables[models.KindIngredient], filter.IngredientIDs))
	}

	return query.OrderBy("id DESC").ToSql()
}

func linkedRecipesExpr(t attributeTable, ids []int64) sq.Sqlizer {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	return sq.Expr(
		fmt.Sprintf("id IN (SELECT recipe_id FROM %s WHERE %s IN (%s))", t.linkTable, t.linkColumn, sq.Placeholders(len(ids))),
		args...,
	)
}

func buildGetRecipeQuery(b sq.StatementBuilderType, userID, recipeID int64) (string, []any, error) {
	return b.Select(recipeColumns...).
		From(models.Recipe{}.TableName()).
		Where(sq.Eq{"id": recipeID, "user_id": userID}).
		ToSql()
}

func buildInsertRecipeQuery(b sq.StatementBuilderType, recipe models.Recipe) (string, []any, error) {
	return b.Insert(recipe.TableName()).
		Columns("user_id", "title", "description", "time_minutes", "price", "link").
		Values(recipe.UserID, recipe.Title, recipe.Description, recipe.TimeMinutes, recipe.Price, recipe.Link).
		Suffix("RETURNING id").
		ToSql()
}

// recipeUpdates collects the scalar columns present in input.
func recipeUpdates(input models.RecipeInput) map[string]any {
	set := make(map[string]any, 5)

	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.TimeMinutes != nil {
		set["time_minutes"] = *input.TimeMinutes
	}
	if input.Price != nil {
		set["price"] = *input.Price
	}
	if input.Link != nil {
		set["link"] = *input.Link
	}

	return set
}

// buildUpdateRecipeQuery returns the id of the updated row. With nothing to
// set it degrades to an existence check of the owned recipe.
func buildUpdateRecipeQuery(b sq.StatementBuilderType, userID, recipeID int64, input models.RecipeInput) (string, []any, error) {
	set := recipeUpdates(input)
	if len(set) == 0 {
		return b.Select("id").
			From(models.Recipe{}.TableName()).
			Where(sq.Eq{"id": recipeID, "user_id": userID}).
			ToSql()
	}

	return b.Update(models.Recipe{}.TableName()).
		SetMap(set).
		Where(sq.Eq{"id": recipeID, "user_id": userID}).
		Suffix("RETURNING id").
		ToSql()
}

func buildDeleteRecipeQuery(b sq.StatementBuilderType, userID, recipeID int64) (string, []any, error) {
	return b.Delete(models.Recipe{}.TableName()).
		Where(sq.Eq{"id": recipeID, "user_id": userID}).
		Suffix("RETURNING image").
		ToSql()
}

func buildSelectRecipeImageQuery(b sq.StatementBuilderType, userID, recipeID int64, forUpdate bool) (string, []any, error) {
	query := b.Select("image").
		From(models.Recipe{}.TableName()).
		Where(sq.Eq{"id": recipeID, "user_id": userID})
	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}
	return query.ToSql()
}

func buildSetRecipeImageQuery(b sq.StatementBuilderType, userID, recipeID int64, imageKey string) (string, []any, error) {
	return b.Update(models.Recipe{}.TableName()).
		Set("image", imageKey).
		Where(sq.Eq{"id": recipeID, "user_id": userID}).
		ToSql()
}

// ── recipe links ─────────────────────────────────────────────────────────────

// buildRecipeAttributesQuery loads the attributes linked to any of recipeIDs
// in one round trip.
func buildRecipeAttributesQuery(b sq.StatementBuilderType, t attributeTable, recipeIDs []int64) (string, []any, error) {
	return b.Select("l.recipe_id", "a.id", "a.name").
		From(t.table + " a").
		Join(fmt.Sprintf("%s l ON l.%s = a.id", t.linkTable, t.linkColumn)).
		Where(sq.Eq{"l.recipe_id": recipeIDs}).
		OrderBy("a.id").
		ToSql()
}

func buildInsertAttributeIgnoreQuery(b sq.StatementBuilderType, t attributeTable, userID int64, name string) (string, []any, error) {
	return b.Insert(t.table).
		Columns("user_id", "name").
		Values(userID, name).
		Suffix("ON CONFLICT (user_id, name) DO NOTHING").
		ToSql()
}

func buildFindAttributeIDQuery(b sq.StatementBuilderType, t attributeTable, userID int64, name string) (string, []any, error) {
	return b.Select("id").
		From(t.table).
		Where(sq.Eq{"user_id": userID, "name": name}).
		ToSql()
}

func buildClearLinksQuery(b sq.StatementBuilderType, t attributeTable, recipeID int64) (string, []any, error) {
	return b.Delete(t.linkTable).
		Where(sq.Eq{"recipe_id": recipeID}).
		ToSql()
}

func buildInsertLinksQuery(b sq.StatementBuilderType, t attributeTable, recipeID int64, attributeIDs []int64) (string, []any, error) {
	query := b.Insert(t.linkTable).Columns("recipe_id", t.linkColumn)
	for _, id := range attributeIDs {
		query = query.Values(recipeID, id)
	}
	return query.Suffix("ON CONFLICT DO NOTHING").ToSql()
}

// ── tags & ingredients ───────────────────────────────────────────────────────

func buildListAttributesQuery(b sq.StatementBuilderType, t attributeTable, filter models.AttributeFilter) (string, []any, error) {
	query := b.Select("id", "name").
		From(t.table).
		Where(sq.Eq{"user_id": filter.UserID})

	if filter.AssignedOnly {
		query = query.Where(fmt.Sprintf("id IN (SELECT %s FROM %s)", t.linkColumn, t.linkTable))
	}

	return query.OrderBy("name DESC", "id DESC").ToSql()
}

func buildGetAttributeQuery(b sq.StatementBuilderType, t attributeTable, userID, id int64) (string, []any, error) {
	return b.Select("id", "name").
		From(t.table).
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
}

func buildUpdateAttributeQuery(b sq.StatementBuilderType, t attributeTable, userID, id int64, name string) (string, []any, error) {
	return b.Update(t.table).
		Set("name", name).
		Where(sq.Eq{"id": id, "user_id": userID}).
		Suffix("RETURNING id, name").
		ToSql()
}

func buildDeleteAttributeQuery(b sq.StatementBuilderType, t attributeTable, userID, id int64) (string, []any, error) {
	return b.Delete(t.table).
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
}
