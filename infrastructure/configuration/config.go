package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"nova-studio/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Storage     Storage     `json:"storage"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Events      Events      `json:"events"`
	Pubsub      Pubsub      `json:"pubsub"`
	ServiceBus  ServiceBus  `json:"serviceBus"`
	Logger      Logger      `json:"logger"`
	OAuth       OAuth       `json:"oauth"`
	Analysis    Analysis    `json:"analysis"`
	Export      Export      `json:"export"`
	Feedback    Feedback    `json:"feedback"`
	Cors        Cors        `json:"cors"`
}

type App struct {
	Port        int    `json:"port"`
	SecretKey   string `json:"secretKey"`
	TokenTTLMin int    `json:"tokenTTLMin"`
	TLSEnabled  bool   `json:"tlsEnabled"`
	TLSCertFile string `json:"tlsCertFile"`
	TLSKeyFile  string `json:"tlsKeyFile"`
	// Origin is where the dashboard is served; it is the Meta redirect target.
	Origin string `json:"origin"`
}

// Storage selects the key-value backend: memory, postgres, mssql, mysql, mongo or redis.
type Storage struct {
	Driver string `json:"driver"`
	Table  string `json:"table"`
}

type Database struct {
	Psql  Db `json:"psql"`
	MySql Db `json:"mysql"`
	Mongo Db `json:"mongo"`
	Mssql Db `json:"mssql"`
}

type Db struct {
	Name     string `json:"string"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Password     string `json:"password"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
}

// Events selects where terminal publish events go: none, pubsub or servicebus.
type Events struct {
	Sink string `json:"sink"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	TopicID   string `json:"topicID"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
	QueueName string `json:"queueName"`
}

type Logger struct {
	Format string `json:"format"`
}

// OAuth holds third-party platform OAuth client credentials
type OAuth struct {
	Meta   MetaOAuth   `json:"meta"`
	Google OAuthClient `json:"google"`
}

type MetaOAuth struct {
	AppID         string   `json:"appId"`
	RedirectURI   string   `json:"redirectURI"`
	AuthEndpoint  string   `json:"authEndpoint"`
	GraphEndpoint string   `json:"graphEndpoint"`
	Scopes        []string `json:"scopes"`
	TokenTTLDays  int      `json:"tokenTTLDays"`
}

type OAuthClient struct {
	ClientID     string   `json:"clientId"`
	ClientSecret string   `json:"clientSecret"`
	RedirectURI  string   `json:"redirectURI"`
	Scopes       []string `json:"scopes"`
}

type Analysis struct {
	APIKey         string `json:"apiKey"`
	BaseURL        string `json:"baseURL"`
	Model          string `json:"model"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

type Export struct {
	TickIntervalMs    int    `json:"tickIntervalMs"`
	ProgressStep      int    `json:"progressStep"`
	UploadDelayMs     int    `json:"uploadDelayMs"`
	ProcessingDelayMs int    `json:"processingDelayMs"`
	ShareBaseURL      string `json:"shareBaseURL"`
}

func (e Export) TickInterval() time.Duration {
	return time.Duration(e.TickIntervalMs) * time.Millisecond
}

func (e Export) UploadDelay() time.Duration {
	return time.Duration(e.UploadDelayMs) * time.Millisecond
}

func (e Export) ProcessingDelay() time.Duration {
	return time.Duration(e.ProcessingDelayMs) * time.Millisecond
}

type Feedback struct {
	DurationMs int `json:"durationMs"`
}

func (f Feedback) Duration() time.Duration {
	return time.Duration(f.DurationMs) * time.Millisecond
}

type Cors struct {
	AllowOrigins []string `json:"allowOrigins"`
}

var C Config

func init() {
	LoadEnvFromFile(".env", "config.env")
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initIntegrations(&C)
	// Prefer https redirect URIs locally when TLS enabled
	if C.App.TLSEnabled {
		if C.OAuth.Google.RedirectURI != "" && !hasHTTPS(C.OAuth.Google.RedirectURI) {
			C.OAuth.Google.RedirectURI = toHTTPSCallback(C.OAuth.Google.RedirectURI)
		}
		if C.OAuth.Meta.RedirectURI != "" && !hasHTTPS(C.OAuth.Meta.RedirectURI) {
			C.OAuth.Meta.RedirectURI = toHTTPSCallback(C.OAuth.Meta.RedirectURI)
		}
	}
}

func setDefaults() {
	viper.SetDefault("app.tokenTTLMin", 24*60)
	viper.SetDefault("app.origin", "http://localhost:5173")
	viper.SetDefault("storage.driver", "memory")
	viper.SetDefault("storage.table", "kv_store")
	viper.SetDefault("events.sink", "none")
	viper.SetDefault("oauth.meta.authEndpoint", "https://www.facebook.com/v18.0/dialog/oauth")
	viper.SetDefault("oauth.meta.graphEndpoint", "https://graph.facebook.com/v18.0")
	viper.SetDefault("oauth.meta.scopes", []string{
		"instagram_basic", "instagram_content_publish", "pages_show_list", "pages_read_engagement",
	})
	viper.SetDefault("oauth.meta.tokenTTLDays", 60)
	viper.SetDefault("oauth.google.scopes", []string{"https://www.googleapis.com/auth/youtube.readonly"})
	viper.SetDefault("analysis.baseURL", "https://generativelanguage.googleapis.com/v1beta/openai/")
	viper.SetDefault("analysis.model", "gemini-3-flash-preview")
	viper.SetDefault("analysis.timeoutSeconds", 30)
	viper.SetDefault("export.tickIntervalMs", 400)
	viper.SetDefault("export.progressStep", 25)
	viper.SetDefault("export.uploadDelayMs", 2000)
	viper.SetDefault("export.processingDelayMs", 2000)
	viper.SetDefault("export.shareBaseURL", "https://nova.os/v")
	viper.SetDefault("feedback.durationMs", 3000)
	viper.SetDefault("cors.allowOrigins", []string{"http://localhost:5173", "http://localhost:3000"})
}

func LoadConfig() {
	name := getConfig()
	setDefaults()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		C.Storage.Driver = v
	}
	if C.Storage.Driver == "" {
		C.Storage.Driver = "memory"
	}
	if C.Storage.Table == "" {
		C.Storage.Table = "kv_store"
	}

	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}

	if C.Database.Mssql.Name == "" {
		C.Database.Mssql.Name = os.Getenv("MSSQL_DB_NAME")
	}
	if C.Database.Mssql.Host == "" {
		C.Database.Mssql.Host = getEnv("MSSQL_HOST", "localhost")
	}
	if C.Database.Mssql.Port == "" {
		C.Database.Mssql.Port = getEnv("MSSQL_PORT", "1433")
	}
	if C.Database.Mssql.User == "" {
		C.Database.Mssql.User = getEnv("MSSQL_USER", "sa")
	}
	if C.Database.Mssql.Password == "" {
		C.Database.Mssql.Password = os.Getenv("MSSQL_PASSWORD")
	}

	if C.RedisClient.Host == "" {
		C.RedisClient.Host = getEnv("REDIS_HOST", "localhost")
	}
	if C.RedisClient.Port == "" {
		C.RedisClient.Port = getEnv("REDIS_PORT", "6379")
	}
	logger.GetLogger().WithField("driver", C.Storage.Driver).Info("Storage configuration")
}

func initApp(C *Config) {
	// Prefer SECRET_KEY from environment for JWT signing; overrides config file when provided
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	if C.App.TokenTTLMin <= 0 {
		C.App.TokenTTLMin = 24 * 60
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			C.App.TLSEnabled = true
		case "0", "false", "FALSE", "False":
			C.App.TLSEnabled = false
		}
	}
	if C.App.TLSCertFile == "" {
		C.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if C.App.TLSKeyFile == "" {
		C.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
	if C.App.TLSEnabled {
		logger.GetLogger().WithFields(map[string]interface{}{"cert": C.App.TLSCertFile, "key": C.App.TLSKeyFile}).Info("TLS enabled via configuration")
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
}

func initIntegrations(C *Config) {
	C.OAuth.Meta.AppID = getConfigValue(C.OAuth.Meta.AppID, "META_APP_ID", "")
	C.OAuth.Meta.RedirectURI = getConfigValue(C.OAuth.Meta.RedirectURI, "META_REDIRECT_URI", C.App.Origin)
	if C.OAuth.Meta.TokenTTLDays <= 0 {
		C.OAuth.Meta.TokenTTLDays = 60
	}

	scheme := "http"
	if C.App.TLSEnabled {
		scheme = "https"
	}
	defaultRedirect := fmt.Sprintf("%s://localhost:%d/auth/youtube/callback", scheme, C.App.Port)
	C.OAuth.Google.ClientID = getConfigValue(C.OAuth.Google.ClientID, "GOOGLE_CLIENT_ID", "")
	C.OAuth.Google.ClientSecret = getConfigValue(C.OAuth.Google.ClientSecret, "GOOGLE_CLIENT_SECRET", "")
	C.OAuth.Google.RedirectURI = getConfigValue(C.OAuth.Google.RedirectURI, "GOOGLE_REDIRECT_URL", defaultRedirect)

	C.Analysis.APIKey = getConfigValue(C.Analysis.APIKey, "ANALYSIS_API_KEY", os.Getenv("API_KEY"))
	if C.Analysis.TimeoutSeconds <= 0 {
		C.Analysis.TimeoutSeconds = 30
	}

	if C.Export.TickIntervalMs <= 0 {
		C.Export.TickIntervalMs = 400
	}
	if C.Export.ProgressStep <= 0 {
		C.Export.ProgressStep = 25
	}
	if C.Export.UploadDelayMs < 0 {
		C.Export.UploadDelayMs = 2000
	}
	if C.Export.ProcessingDelayMs < 0 {
		C.Export.ProcessingDelayMs = 2000
	}
	if C.Feedback.DurationMs <= 0 {
		C.Feedback.DurationMs = 3000
	}
	if v := os.Getenv("EVENTS_SINK"); v != "" {
		C.Events.Sink = v
	}
}

// getConfigValue gets value from config first, then environment variable, then default
func getConfigValue(configValue, envKey, defaultValue string) string {
	// Environment variable takes precedence when provided
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// helpers to coerce local callback to https
func hasHTTPS(u string) bool { return strings.HasPrefix(u, "https://") }
func toHTTPSCallback(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}
