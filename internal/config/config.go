package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`

	SenderName string `yaml:"sender_name"` // display name on outbound mail
	FromEmail  string `yaml:"from_email"`

	// Fixed offset applied when converting local birth time to UTC.
	// A pointer so an explicit 0 survives defaulting. Deriving the real
	// timezone from the birth place is a known gap.
	UTCOffsetHours *int `yaml:"utc_offset_hours"`

	SaveInboundEmails bool   `yaml:"save_inbound_emails"`
	InboundDumpDir    string `yaml:"inbound_dump_dir"`

	QAEndpoint string `yaml:"qa_endpoint"` // question-answering inference URL

	Assets  Assets  `yaml:"assets"`
	Redis   Redis   `yaml:"redis"`
	Storage Storage `yaml:"storage"`
}

// Assets are optional on-disk overrides for the embedded poster assets.
type Assets struct {
	TemplatePath string `yaml:"template_path"`
	IconsDir     string `yaml:"icons_dir"`
	FontPath     string `yaml:"font_path"`
	FontBoldPath string `yaml:"font_bold_path"`
}

type Redis struct {
	Addr     string        `yaml:"addr"` // empty disables webhook dedup
	DedupTTL time.Duration `yaml:"dedup_ttl"`
}

type Storage struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	PublicURL string `yaml:"public_url"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type Private struct {
	PostmarkToken    string `yaml:"postmark_token"`
	WebhookSecret    string `yaml:"webhook_secret"`
	APIKey           string `yaml:"api_key"`
	QAToken          string `yaml:"qa_token"`
	StorageAccessKey string `yaml:"storage_access_key"`
	StorageSecretKey string `yaml:"storage_secret_key"`
	RedisPassword    string `yaml:"redis_password"`
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	// Secrets are referenced as ${VAR} in the yaml and resolved from the
	// environment at load time.
	expanded := os.ExpandEnv(string(configFile))

	err = yaml.Unmarshal([]byte(expanded), output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Public.Port == 0 {
		c.Public.Port = 8080
	}
	if c.Public.LogLevel == "" {
		c.Public.LogLevel = "info"
	}
	if c.Public.UTCOffsetHours == nil {
		offset := 3
		c.Public.UTCOffsetHours = &offset
	}
	if c.Public.InboundDumpDir == "" {
		c.Public.InboundDumpDir = "inbound_emails"
	}
	if c.Public.Redis.DedupTTL == 0 {
		c.Public.Redis.DedupTTL = 24 * time.Hour
	}
}
