package models

type Config struct {
	Database DatabaseConfig `json:"database"`
	HTTP     HTTPConfig     `json:"http"`
	Catalog  CatalogConfig  `json:"catalog"`
	Misc     MiscConfig     `json:"misc"`
}

type DatabaseConfig struct {
	DBType           string `json:"db_type" env:"DEX_DB_TYPE" validate:"required,oneof=sqlite postgres mysql memory"`
	ConnectionString string `json:"connection_string" env:"DEX_DB_CONNECTION_STRING" validate:"required_unless=DBType memory"`
}

type HTTPConfig struct {
	Port          int    `json:"port" env:"DEX_HTTP_PORT" validate:"required,min=1,max=65535"`
	ListeningAddr string `json:"listening_addr" env:"DEX_HTTP_LISTENING_ADDR" validate:"required"`
}

type CatalogConfig struct {
	DefaultPageSize int `json:"default_page_size" env:"DEX_DEFAULT_PAGE_SIZE" validate:"omitempty,min=1,ltefield=MaxPageSize"`
	MaxPageSize     int `json:"max_page_size" env:"DEX_MAX_PAGE_SIZE" validate:"omitempty,min=1,max=1000"`
	MaxChainLength  int `json:"max_chain_length" env:"DEX_MAX_CHAIN_LENGTH" validate:"omitempty,min=2"`
}

type MiscConfig struct {
	SeedCatalog bool   `json:"seed_catalog" env:"DEX_SEED_CATALOG"`
	SeedFile    string `json:"seed_file" env:"DEX_SEED_FILE"`
	SeedURL     string `json:"seed_url" env:"DEX_SEED_URL" validate:"omitempty,url"`
}
