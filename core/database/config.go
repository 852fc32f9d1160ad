package database

// Config holds configuration for the document store database.
type Config struct {
	// Driver is the database driver (mysql, sqlite).
	Driver string `mapstructure:"driver" default:"mysql"`
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:""`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name, or the file path for sqlite.
	Name string `mapstructure:"name" default:"portal"`
	// Table holds the documents of every collection.
	Table string `mapstructure:"table" default:"documents"`
	// CredentialsFile is a JSON service credential that overrides the fields above.
	CredentialsFile string `mapstructure:"credentials_file" default:""`
	// TimeoutSeconds bounds connection setup and each read or write.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// ConnectRetries is how many times a failed initial ping is retried.
	ConnectRetries int `mapstructure:"connect_retries" default:"3"`
}

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)
