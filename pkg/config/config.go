package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Logging struct {
		Level       string `yaml:"level" default:"info" validate:"oneof=debug info warn error fatal panic"`
		Format      string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output      string `yaml:"output" default:"stdout"`
		ErrorBuffer int    `yaml:"error_buffer" default:"256" validate:"gte=0"` // 0 disables the error-log ring
	} `yaml:"logging"`
	Delivery struct {
		Sink       string        `yaml:"sink" default:"http" validate:"oneof=http kafka"`
		URL        string        `yaml:"url"`
		Timeout    time.Duration `yaml:"timeout" default:"10s"`
		DrainDelay time.Duration `yaml:"drain_delay" default:"250ms"`
	} `yaml:"delivery"`
	Queue struct {
		Store     string        `yaml:"store" default:"file" validate:"oneof=file redis"`
		Key       string        `yaml:"key" default:"marketpulse:retry_queue"`
		Dir       string        `yaml:"dir"`
		Retention time.Duration `yaml:"retention" default:"72h"`
		Redis     struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"queue"`
	Dedup struct {
		Retention time.Duration `yaml:"retention" default:"24h"`
	} `yaml:"dedup"`
	Insight struct {
		WindowMinutes    int           `yaml:"window_minutes" default:"5"`
		HistoryRetention time.Duration `yaml:"history_retention" default:"2h"`
		BullWeight       float64       `yaml:"bull_weight" default:"1"`
		BearWeight       float64       `yaml:"bear_weight" default:"2"`
		BiasRatio        float64       `yaml:"bias_ratio" default:"1.2"`
		Scale            float64       `yaml:"scale" default:"100"`
		StrongAt         int           `yaml:"strong_at" default:"60"`
		MildAt           int           `yaml:"mild_at" default:"20"`
	} `yaml:"insight"`
	Scenario struct {
		VolumeBonus       int     `yaml:"volume_bonus" default:"3"`
		MomentumBonus     int     `yaml:"momentum_bonus" default:"1"`
		BreakoutWindowPct float64 `yaml:"breakout_window_pct" default:"3.0"`
		BreakdownWindow   float64 `yaml:"breakdown_window_pct" default:"3.0"`
		MomentumTolerance float64 `yaml:"momentum_tolerance" default:"0.5"`
		TopN              int     `yaml:"top_n" default:"10"`
	} `yaml:"scenario"`
	Feed struct {
		Enabled        bool          `yaml:"enabled"`
		WebSocketURL   string        `yaml:"websocket_url"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"5s"`
		PingInterval   time.Duration `yaml:"ping_interval" default:"30s"`
	} `yaml:"feed"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"1s"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			Enabled    bool          `yaml:"enabled"`
			Topic      string        `yaml:"topic"`
			GroupID    string        `yaml:"group_id" default:"marketpulse"`
			Workers    int           `yaml:"workers" default:"2"`
			BufferSize int           `yaml:"buffer_size" default:"256"`
			RetryMax   int           `yaml:"retry_max" default:"3"`
			BackoffMin time.Duration `yaml:"backoff_min" default:"200ms"`
			BackoffMax time.Duration `yaml:"backoff_max" default:"5s"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes" default:"1"`
			MaxBytes   int           `yaml:"max_bytes" default:"1048576"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"marketpulse"`
		Table            string        `yaml:"table" default:"alerts_raw"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
	Cache struct {
		RedisEnabled bool   `yaml:"redis_enabled"`
		Addr         string `yaml:"addr"`
		Password     string `yaml:"password"`
		DB           int    `yaml:"db"`
	} `yaml:"cache"`
}

var validate = validator.New()

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// Default returns a config built from struct defaults only.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("DELIVERY_SINK"); v != "" {
		c.Delivery.Sink = v
	}
	if v := os.Getenv("DELIVERY_URL"); v != "" {
		c.Delivery.URL = v
	}
	if v := os.Getenv("QUEUE_STORE"); v != "" {
		c.Queue.Store = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Queue.Redis.Addr = v
		c.Cache.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("FEED_URL"); v != "" {
		c.Feed.WebSocketURL = v
		c.Feed.Enabled = true
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks struct tags plus the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Delivery.Sink == "http" && c.Delivery.URL == "" {
		return fmt.Errorf("delivery.url is required for the http sink")
	}
	if c.Delivery.Sink == "kafka" && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return fmt.Errorf("kafka.brokers and kafka.topic are required for the kafka sink")
	}
	if c.Queue.Store == "redis" && c.Queue.Redis.Addr == "" {
		return fmt.Errorf("queue.redis.addr is required for the redis store")
	}
	if c.Feed.Enabled && c.Feed.WebSocketURL == "" {
		return fmt.Errorf("feed.websocket_url is required when the feed is enabled")
	}
	if c.Kafka.Consumer.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Consumer.Topic == "") {
		return fmt.Errorf("kafka.brokers and kafka.consumer.topic are required for the consumer")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}
