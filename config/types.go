package config

type Config struct {
	Debug   bool    `mapstructure:"debug"`
	Server  Server  `mapstructure:"server"`
	Auth    Auth    `mapstructure:"auth"`
	Storage Storage `mapstructure:"storage"`
	Records Records `mapstructure:"records"`
}

type Server struct {
	Address   string       `mapstructure:"address" validate:"required,hostname|ip"`
	Port      int          `mapstructure:"port" validate:"required,min=1,max=65535"`
	PublicUrl string       `mapstructure:"public_url" validate:"required,url"`
	Limits    ServerLimits `mapstructure:"limits"`
}

type ServerLimits struct {
	// MaxFileSize is the upload ceiling in bytes. Defaults to 100 MiB.
	MaxFileSize     uint `mapstructure:"max_file_size"`
	MaxMultipartMem uint `mapstructure:"max_multipart_mem" validate:"required"`
	// MaxPageSize caps the list page size. Defaults to 100.
	MaxPageSize int `mapstructure:"max_page_size"`
}

// Auth describes how the verified owner identity reaches this service.
// Credential verification happens upstream; we only consume the identity
// the upstream collaborator asserts.
type Auth struct {
	IdentityHeader string `mapstructure:"identity_header" validate:"required"`
}

type Storage struct {
	Strategy string                `mapstructure:"strategy" validate:"required,oneof=local s3 memory"`
	Local    *LocalStorageStrategy `mapstructure:"local" validate:"required_if=Strategy local"`
	S3       *S3StorageStrategy    `mapstructure:"s3" validate:"required_if=Strategy s3"`
	// TimeoutSeconds bounds each backend store/delete call. Defaults to 30.
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	KeyPattern     string `mapstructure:"key_pattern"`
}

type LocalStorageStrategy struct {
	Path      string `mapstructure:"path" validate:"required,abspath"`
	PublicUrl string `mapstructure:"public_url" validate:"required,url"`
}

type S3StorageStrategy struct {
	AccessKeyId string `mapstructure:"access_key_id" validate:"required"`
	SecretKeyId string `mapstructure:"secret_key_id" validate:"required"`
	Region      string `mapstructure:"region"`
	Bucket      string `mapstructure:"bucket" validate:"required"`
	Endpoint    string `mapstructure:"endpoint"`
	PublicUrl   string `mapstructure:"public_url" validate:"required,url"`
	// ForcePathStyle and DisableSSL support S3-compatible services (MinIO,
	// local stacks) that do not speak virtual-host TLS.
	ForcePathStyle bool `mapstructure:"force_path_style"`
	DisableSSL     bool `mapstructure:"disable_ssl"`
}

type Records struct {
	Strategy string             `mapstructure:"strategy" validate:"required,oneof=sql d1 memory"`
	Sql      *SqlRecordStrategy `mapstructure:"sql" validate:"required_if=Strategy sql"`
	D1       *D1RecordStrategy  `mapstructure:"d1" validate:"required_if=Strategy d1"`
	// TablePrefix overrides the default "mediavault" table prefix. A nil
	// value keeps the default; an empty string removes the prefix entirely.
	TablePrefix *string `mapstructure:"table_prefix" validate:"omitempty,identifier"`
}

type SqlRecordStrategy struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres mysql"`
	DSN    string `mapstructure:"dsn" validate:"required"`
}

type D1RecordStrategy struct {
	AccountID  string `mapstructure:"account_id" validate:"required"`
	DatabaseID string `mapstructure:"database_id" validate:"required"`
	APIToken   string `mapstructure:"api_token" validate:"required"`
	Endpoint   string `mapstructure:"endpoint" validate:"omitempty,url"`
}
