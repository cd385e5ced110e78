package service

type Config struct {
	SqliteFile string `toml:"sqlite_file"`
	Token      string `toml:"token"`
	Expiration string `toml:"expiration"`

	// Bootstrap admin created on first start when absent.
	AdminName  string `toml:"admin_name"`
	AdminEmail string `toml:"admin_email"`

	// "sqlite" (default) or "postgres".
	StorageType string        `toml:"storage_type"`
	Storage     StorageConfig `toml:"db"`
}

type StorageConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	DBName   string `toml:"dbname"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}
