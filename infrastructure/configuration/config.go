package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"channel-insights/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	YouTube     YouTube     `json:"youtube"`
	Collector   Collector   `json:"collector"`
	Dataset     Dataset     `json:"dataset"`
	Dashboard   Dashboard   `json:"dashboard"`
	Export      Export      `json:"export"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Pubsub      Pubsub      `json:"pubsub"`
	ServiceBus  ServiceBus  `json:"serviceBus"`
}

type App struct {
	Port         int      `json:"port"`
	SecretKey    string   `json:"secretKey"`
	AllowOrigins []string `json:"allowOrigins"`
}

type YouTube struct {
	APIKey                string `json:"apiKey"`
	ChannelID             string `json:"channelId"`
	Endpoint              string `json:"endpoint"`
	RequestTimeoutSeconds int    `json:"requestTimeoutSeconds"`
}

type Collector struct {
	PageIntervalMs    int    `json:"pageIntervalMs"`
	MaxPages          int    `json:"maxPages"`
	ItemFailurePolicy string `json:"itemFailurePolicy"` // skip-item | skip-page | abort
	FailOnPartial     bool   `json:"failOnPartial"`
}

type Dataset struct {
	Path string `json:"path"`
}

type Dashboard struct {
	ChannelName string `json:"channelName"`
}

type Export struct {
	SQLVendor string `json:"sqlVendor"` // postgres | mssql | mysql
	CSVPath   string `json:"csvPath"`
	Mongo     bool   `json:"mongo"`
}

type Database struct {
	Psql  Db `json:"psql"`
	MySql Db `json:"mysql"`
	Mssql Db `json:"mssql"`
	Mongo Db `json:"mongo"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host       string `json:"host"`
	Port       string `json:"port"`
	Password   string `json:"password"`
	Username   string `json:"username"`
	DB         int    `json:"db"`
	TTLMinutes int    `json:"ttlMinutes"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
	Queue     string `json:"queue"`
}

const (
	DefaultPort           = 8501
	DefaultDatasetPath    = "data/videos_stats.bson"
	DefaultPageIntervalMs = 1000
	DefaultMaxPages       = 1000
	DefaultRequestTimeout = 30
	DefaultStatsTTL       = 360
)

var C Config

func init() {
	LoadEnvFromFile("config.env", ".env")
	LoadConfig()
	Apply(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().WithField("config", name).Warn("Config file not found, using environment only")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

// Apply fills environment overrides and defaults into c
func Apply(c *Config) {
	initApp(c)
	initYouTube(c)
	initCollector(c)
	initDataset(c)
	initDatabase(c)
	initRedis(c)
	initMessaging(c)
}

func initApp(c *Config) {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		c.App.SecretKey = v
	}
	// Port resolution order: APP_PORT -> PORT -> config -> default
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.App.Port = p
		}
	}
	if c.App.Port == 0 {
		c.App.Port = DefaultPort
	}
}

func initYouTube(c *Config) {
	c.YouTube.APIKey = getConfigValue(c.YouTube.APIKey, "YOUTUBE_API_KEY", "")
	c.YouTube.ChannelID = getConfigValue(c.YouTube.ChannelID, "YOUTUBE_CHANNEL_ID", "")
	if c.YouTube.ChannelID == "" {
		c.YouTube.ChannelID = getEnv("CHANNEL_ID", "")
	}
	c.YouTube.Endpoint = getConfigValue(c.YouTube.Endpoint, "YOUTUBE_ENDPOINT", "")
	if c.YouTube.RequestTimeoutSeconds <= 0 {
		c.YouTube.RequestTimeoutSeconds = DefaultRequestTimeout
	}
}

func initCollector(c *Config) {
	if v := os.Getenv("COLLECTOR_PAGE_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.Collector.PageIntervalMs = ms
		}
	}
	if c.Collector.PageIntervalMs <= 0 {
		c.Collector.PageIntervalMs = DefaultPageIntervalMs
	}
	if c.Collector.MaxPages <= 0 {
		c.Collector.MaxPages = DefaultMaxPages
	}
	c.Collector.ItemFailurePolicy = getConfigValue(c.Collector.ItemFailurePolicy, "COLLECTOR_ITEM_FAILURE_POLICY", "skip-item")
	if v := os.Getenv("COLLECTOR_FAIL_ON_PARTIAL"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			c.Collector.FailOnPartial = true
		case "0", "false", "FALSE", "False":
			c.Collector.FailOnPartial = false
		}
	}
}

func initDataset(c *Config) {
	c.Dataset.Path = getConfigValue(c.Dataset.Path, "DATASET_PATH", DefaultDatasetPath)
	c.Dashboard.ChannelName = getConfigValue(c.Dashboard.ChannelName, "DASHBOARD_CHANNEL_NAME", "")
	c.Export.SQLVendor = getConfigValue(c.Export.SQLVendor, "EXPORT_SQL_VENDOR", "")
	c.Export.CSVPath = getConfigValue(c.Export.CSVPath, "EXPORT_CSV_PATH", "")
	if v := os.Getenv("EXPORT_MONGO"); v != "" {
		c.Export.Mongo, _ = strconv.ParseBool(v)
	}
}

func initDatabase(c *Config) {
	c.Database.Psql.Name = getConfigValue(c.Database.Psql.Name, "DB_NAME", "")
	c.Database.Psql.Host = getConfigValue(c.Database.Psql.Host, "DB_HOST", "localhost")
	c.Database.Psql.Port = getConfigValue(c.Database.Psql.Port, "DB_PORT", "5432")
	c.Database.Psql.User = getConfigValue(c.Database.Psql.User, "DB_USER", "")
	c.Database.Psql.Password = getConfigValue(c.Database.Psql.Password, "DB_PASSWORD", "")

	c.Database.Mssql.Name = getConfigValue(c.Database.Mssql.Name, "MSSQL_DB_NAME", "")
	c.Database.Mssql.Host = getConfigValue(c.Database.Mssql.Host, "MSSQL_HOST", "localhost")
	c.Database.Mssql.Port = getConfigValue(c.Database.Mssql.Port, "MSSQL_PORT", "1433")
	c.Database.Mssql.User = getConfigValue(c.Database.Mssql.User, "MSSQL_USER", "sa")
	c.Database.Mssql.Password = getConfigValue(c.Database.Mssql.Password, "MSSQL_PASSWORD", "")

	c.Database.MySql.Name = getConfigValue(c.Database.MySql.Name, "MYSQL_DB_NAME", "")
	c.Database.MySql.Host = getConfigValue(c.Database.MySql.Host, "MYSQL_HOST", "localhost")
	c.Database.MySql.Port = getConfigValue(c.Database.MySql.Port, "MYSQL_PORT", "3306")
	c.Database.MySql.User = getConfigValue(c.Database.MySql.User, "MYSQL_USER", "root")
	c.Database.MySql.Password = getConfigValue(c.Database.MySql.Password, "MYSQL_PASSWORD", "")

	c.Database.Mongo.Name = getConfigValue(c.Database.Mongo.Name, "MONGO_DB_NAME", "channel_insights")
	c.Database.Mongo.Host = getConfigValue(c.Database.Mongo.Host, "MONGO_HOST", "localhost")
	c.Database.Mongo.Port = getConfigValue(c.Database.Mongo.Port, "MONGO_PORT", "27017")
	c.Database.Mongo.User = getConfigValue(c.Database.Mongo.User, "MONGO_USER", "")
	c.Database.Mongo.Password = getConfigValue(c.Database.Mongo.Password, "MONGO_PASSWORD", "")
}

func initRedis(c *Config) {
	c.RedisClient.Host = getConfigValue(c.RedisClient.Host, "REDIS_HOST", "")
	c.RedisClient.Port = getConfigValue(c.RedisClient.Port, "REDIS_PORT", "6379")
	c.RedisClient.Password = getConfigValue(c.RedisClient.Password, "REDIS_PASSWORD", "")
	if c.RedisClient.TTLMinutes <= 0 {
		c.RedisClient.TTLMinutes = DefaultStatsTTL
	}
}

func initMessaging(c *Config) {
	c.Pubsub.ProjectID = getConfigValue(c.Pubsub.ProjectID, "PUBSUB_PROJECT_ID", "")
	c.Pubsub.Topic = getConfigValue(c.Pubsub.Topic, "PUBSUB_TOPIC", "channel-dataset-published")
	c.ServiceBus.Namespace = getConfigValue(c.ServiceBus.Namespace, "SERVICEBUS_NAMESPACE", "")
	c.ServiceBus.Queue = getConfigValue(c.ServiceBus.Queue, "SERVICEBUS_QUEUE", "channel-dataset-published")
}

// getConfigValue gets value from environment first, then config, then default
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	// Placeholders such as YOUR_YOUTUBE_API_KEY count as unset
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
