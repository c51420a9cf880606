package config

const (
	// GormEngineMySQL selects the gorm mysql driver.
	GormEngineMySQL = "mysql"
	// GormEnginePostgres selects the gorm postgres driver.
	GormEnginePostgres = "postgres"
	// GormEngineSQLite selects the pure go sqlite driver.
	GormEngineSQLite = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	GormEngine string // mysql, postgres or sqlite (Name is the file path for sqlite)
}
