package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type RatesConfig struct {
	Env          string `yaml:"env" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	ItemsDB      `yaml:"items_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka-service"`
	RatesSource  `yaml:"rates_source"`
}

type HTTPServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"8080"`
}

type ItemsDB struct {
	Dsn            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"text"`
	LogOutput string `yaml:"log_output" env-default:"stdout"`
}

type KafkaService struct {
	Host    string `yaml:"host"`
	Port    string `yaml:"port"`
	Topic   string `yaml:"topic" env-default:"items.updates"`
	GroupID string `yaml:"group_id" env-default:"rates-service"`
}

type RatesSource struct {
	CBRURL            string        `yaml:"cbr_url" env-default:"https://www.cbr.ru/scripts/XML_daily.asp"`
	BinanceURL        string        `yaml:"binance_url" env-default:"https://api.binance.com/api/v3/ticker/price"`
	PollInterval      time.Duration `yaml:"poll_interval" env-default:"1m"`
	RequestTimeout    time.Duration `yaml:"request_timeout" env-default:"10s"`
	Currencies        []string      `yaml:"currencies" env-default:"USD,EUR,CNY"`
	CryptoCurrencies  []string      `yaml:"crypto_currencies" env-default:"BTC,ETH"`
	BaseCurrency      string        `yaml:"base_currency" env-default:"RUB"`
	QuoteCurrency     string        `yaml:"quote_currency" env-default:"USD"`
	FallbackQuoteRate float64       `yaml:"fallback_quote_rate" env-default:"80.0"`
	CBRPlatform       string        `yaml:"cbr_platform" env-default:"cbr"`
	CryptoPlatform    string        `yaml:"crypto_platform" env-default:"binance"`
	UserAgent         string        `yaml:"user_agent" env-default:"rates-service/1.0"`
}

func MustLoad() *RatesConfig {

	// Processing env config variable and file
	configPath := os.Getenv("RATES_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("RATES_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg RatesConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
