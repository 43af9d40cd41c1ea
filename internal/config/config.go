package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 结构体包含所有应用的配置
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	MySQL   MySQLConfig   `mapstructure:"mysql"`
	Redis   RedisConfig   `mapstructure:"redis"`
	JWT     JWTConfig     `mapstructure:"jwt"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// MySQLConfig 数据库配置
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	SecretKey string        `mapstructure:"secret_key"`
	ExpiresIn time.Duration `mapstructure:"expires_in"`
	Issuer    string        `mapstructure:"issuer"`
}

// StorageConfig 存储配置
// DefaultQuotaBytes 是单用户配额的默认值(无覆盖值时生效)
// TotalBytes 是整个部署的存储总量, 仅用于管理端统计视图;
// 两者相互独立, 互不推导
type StorageConfig struct {
	UploadsDir        string        `mapstructure:"uploads_dir"`
	DefaultQuotaBytes int64         `mapstructure:"default_quota_bytes"`
	TotalBytes        int64         `mapstructure:"total_bytes"`
	StatsCacheTTL     time.Duration `mapstructure:"stats_cache_ttl"`
}

// LogConfig zap日志配置
type LogConfig struct {
	OutputPath string `mapstructure:"output_path"`
	ErrorPath  string `mapstructure:"error_path"`
	Level      string `mapstructure:"level"`
}

// LoadConfig 加载配置
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config") // 配置文件名 (不带扩展名)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/teamdisk/") // 生产环境常见路径

	// 读取环境变量, 例如 TEAMDISK_MYSQL_DSN 映射到 mysql.dsn
	viper.SetEnvPrefix("TEAMDISK")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 默认值 (配置文件和环境变量中都没有时生效)
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("storage.uploads_dir", "./uploads")
	viper.SetDefault("storage.default_quota_bytes", int64(5)<<30) // 5 GiB
	viper.SetDefault("storage.total_bytes", int64(5)<<40)         // 5 TiB
	viper.SetDefault("storage.stats_cache_ttl", time.Minute)
	viper.SetDefault("jwt.expires_in", 24*time.Hour)
	viper.SetDefault("jwt.issuer", "teamdisk")
	viper.SetDefault("log.output_path", "logs/app.log")
	viper.SetDefault("log.error_path", "logs/error.log")
	viper.SetDefault("log.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// 配置文件未找到不是致命错误, 可以依赖环境变量和默认值
			log.Println("Warning: config file not found, using environment variables and defaults.")
		} else {
			log.Fatalf("Fatal error reading config file: %s \n", err)
			return nil, err
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		log.Fatalf("Fatal error unmarshaling config: %s \n", err)
		return nil, err
	}

	return cfg, nil
}
