package repositories

import "context"

// Repository aggregates all repository interfaces behind one handle.
type Repository interface {
	// Progress domain
	Progress() ProgressRepository

	// Student domain
	Student() StudentRepository

	// Content domain
	Language() LanguageRepository
	Level() LevelRepository
	Stage() StageRepository
	Activity() ActivityRepository
	Exercise() ExerciseRepository

	// Payments
	Purchase() PurchaseRepository

	// User domain (directory data lives in the identity provider)
	User() UserRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
