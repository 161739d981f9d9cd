package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Project() ProjectRepository
	Connection() ConnectionRepository
	Template() TemplateRepository

	Close() error
}
