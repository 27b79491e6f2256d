package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when registration hits the unique
	// email constraint.
	ErrEmailAlreadyExists = errors.New("user with this email already exists")

	// ErrNoUserWasFound is returned when a query expected to match a user
	// record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrTokenNotFound is returned when the user has never been issued a token.
	ErrTokenNotFound = errors.New("token was not found")

	// ErrRecipeNotFound covers both missing recipes and recipes owned by
	// another user.
	ErrRecipeNotFound = errors.New("recipe was not found")

	// ErrAttributeNotFound is the tag/ingredient counterpart of [ErrRecipeNotFound].
	ErrAttributeNotFound = errors.New("attribute was not found")

	// ErrAttributeNameTaken is returned when a rename collides with another
	// tag or ingredient of the same owner.
	ErrAttributeNameTaken = errors.New("attribute with this name already exists")

	// ErrUnknownAttributeKind is returned for an [models.AttributeKind] that
	// has no backing table.
	ErrUnknownAttributeKind = errors.New("unknown attribute kind")

	// ErrCacheMiss is returned by a [TokenCache] that holds no key for the user.
	ErrCacheMiss = errors.New("token cache miss")

	// ErrInvalidImageKey is returned for storage keys that are empty, absolute
	// or escape the storage root.
	ErrInvalidImageKey = errors.New("invalid image key")

	// ErrDatabaseUnavailable is returned when the database does not answer
	// within the configured wait timeout.
	ErrDatabaseUnavailable = errors.New("database is unavailable")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when multi-row iteration fails mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
