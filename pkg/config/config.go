package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
	Contract ContractConfig `mapstructure:"contract"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Journal  JournalConfig  `mapstructure:"journal"`
	Notify   NotifyConfig   `mapstructure:"notify"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	HttpPort string `mapstructure:"http_port"`
}

type WalletConfig struct {
	// RpcUrl is the wallet-capable JSON-RPC endpoint. Empty means no
	// provider is available and connect attempts are refused.
	RpcUrl string `mapstructure:"rpc_url"`
	// PollIntervalMs drives the accountsChanged/chainChanged poll loop.
	PollIntervalMs int `mapstructure:"poll_interval_ms"`
	// DeepLinkBase is the wallet deep-link prefix handed to mobile
	// clients when no provider is available.
	DeepLinkBase string `mapstructure:"deep_link_base"`
}

type ContractConfig struct {
	// Address of the deployed Transactions ledger contract. Required.
	Address string `mapstructure:"address"`
	// AbiPath optionally overrides the embedded contract ABI.
	AbiPath string `mapstructure:"abi_path"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	MQType   string `mapstructure:"mq_type"` // "redis" or "kafka"
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
}

type JournalConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type NotifyConfig struct {
	Topic string `mapstructure:"topic"`
}

var Global Config

func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Warning: Config file not found, using defaults and environment variables")
		} else {
			log.Fatalf("Fatal error config file: %s \n", err)
		}
	}

	if err := viper.Unmarshal(&Global); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	log.Printf("Configuration loaded successfully. Env: %s", Global.App.Env)
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.http_port", "8080")

	viper.SetDefault("wallet.poll_interval_ms", 2000)
	viper.SetDefault("wallet.deep_link_base", "https://metamask.app.link/dapp/")

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.mq_type", "redis")

	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})

	viper.SetDefault("journal.enabled", false)
	viper.SetDefault("journal.host", "localhost")
	viper.SetDefault("journal.port", "5432")
	viper.SetDefault("journal.user", "metasecure")
	viper.SetDefault("journal.password", "metasecure")
	viper.SetDefault("journal.name", "metasecure")

	viper.SetDefault("notify.topic", "metasecure_events_notice")
}
