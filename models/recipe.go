package models

import "time"

// Recipe is a cooking recipe owned by exactly one user.
type Recipe struct {
	ID int64 `json:"id"`

	// UserID is the owner. It is forced to the caller on create and never
	// changes afterwards.
	UserID int64 `json:"-"`

	Title       string `json:"title"`
	Description string `json:"description"`
	TimeMinutes int    `json:"time_minutes"`
	Price       Price  `json:"price"`
	Link        string `json:"link"`

	// ImagePath is the storage key of the uploaded image, empty when none.
	ImagePath string `json:"-"`

	// Image is the public URL of ImagePath, filled in by the service layer.
	Image *string `json:"image"`

	Tags        []Attribute `json:"tags"`
	Ingredients []Attribute `json:"ingredients"`

	CreatedAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the Recipe model.
func (r Recipe) TableName() string {
	return "recipes"
}

// RecipeSummary is the list representation of a recipe. It omits the
// description and the image.
type RecipeSummary struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	TimeMinutes int         `json:"time_minutes"`
	Price       Price       `json:"price"`
	Link        string      `json:"link"`
	Tags        []Attribute `json:"tags"`
	Ingredients []Attribute `json:"ingredients"`
}

// Summary converts r to its list representation.
func (r Recipe) Summary() RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        nonNilAttributes(r.Tags),
		Ingredients: nonNilAttributes(r.Ingredients),
	}
}

// Detail returns r with empty rather than nil tag and ingredient lists, as
// rendered by the detail endpoints.
func (r Recipe) Detail() Recipe {
	r.Tags = nonNilAttributes(r.Tags)
	r.Ingredients = nonNilAttributes(r.Ingredients)
	return r
}

// RecipeInput is the payload of recipe create and update requests.
//
// Every field is a pointer so that an absent key can be told apart from a
// zero value. For Tags and Ingredients a present key, even an empty list,
// replaces the whole association set.
type RecipeInput struct {
	Title       *string           `json:"title" validate:"omitnil,notblank,max=255"`
	Description *string           `json:"description"`
	TimeMinutes *int              `json:"time_minutes" validate:"omitnil,gte=0,lte=2147483647"`
	Price       *Price            `json:"price" validate:"omitnil,money"`
	Link        *string           `json:"link" validate:"omitnil,max=255,link"`
	Tags        *[]AttributeInput `json:"tags" validate:"omitnil,dive"`
	Ingredients *[]AttributeInput `json:"ingredients" validate:"omitnil,dive"`
}

// RequiredRecipeFields lists the keys that must be present when a recipe is
// created or fully replaced.
var RequiredRecipeFields = []string{"title", "time_minutes", "price"}

// Missing returns the json names of required fields absent from in.
func (in RecipeInput) Missing() []string {
	var missing []string
	if in.Title == nil {
		missing = append(missing, "title")
	}
	if in.TimeMinutes == nil {
		missing = append(missing, "time_minutes")
	}
	if in.Price == nil {
		missing = append(missing, "price")
	}
	return missing
}

// RecipeFilter narrows a recipe listing. Empty id lists do not filter.
type RecipeFilter struct {
	UserID        int64
	TagIDs        []int64
	IngredientIDs []int64
}

// RecipeImage is the response of the image upload endpoint.
type RecipeImage struct {
	ID    int64   `json:"id"`
	Image *string `json:"image"`
}

// ImageUpload is an image received from a client.
type ImageUpload struct {
	// Filename is the client-side file name. Only its extension is kept.
	Filename    string
	ContentType string
	Data        []byte
}

func nonNilAttributes(a []Attribute) []Attribute {
	if a == nil {
		return []Attribute{}
	}
	return a
}
