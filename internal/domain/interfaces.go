package domain

// RecordProvider supplies the fixed, ordered disorder catalog to presentation
// surfaces. Every method returns copies; implementations never change the
// sequence after construction.
type RecordProvider interface {
	Records() []Disorder
	Len() int
	Get(id string) (Disorder, error)
	FindByName(name string) (Disorder, error)
	FindByGene(query string) []Disorder
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetLoggingConfig() *LoggingConfig
	Reload() error
	Validate() error
	IsProduction() bool
	IsDevelopment() bool
}
