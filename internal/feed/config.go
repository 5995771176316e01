package feed

// Config 变更推送配置，各目标独立启用
type Config struct {
	Redis RedisConfig `yaml:"redis"`
	NATS  NATSConfig  `yaml:"nats"`
	Kafka KafkaConfig `yaml:"kafka"`
}

// RedisConfig Redis Streams 推送配置
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" default:"false"`
	Addr     string `yaml:"addr" default:"127.0.0.1:6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" default:"0"`
	// Stream 目标 stream 名称
	Stream string `yaml:"stream" default:"inventory.history"`
	// MaxLen stream 近似最大长度，0 表示不限制
	MaxLen int64 `yaml:"max-len" default:"100000"`
}

// NATSConfig NATS 推送配置
type NATSConfig struct {
	Enabled bool   `yaml:"enabled" default:"false"`
	URL     string `yaml:"url" default:"nats://127.0.0.1:4222"`
	// SubjectPrefix 主题前缀，完整主题为 <prefix>.<entityType>.<action>
	SubjectPrefix string `yaml:"subject-prefix" default:"inventory.history"`
}

// KafkaConfig Kafka 推送配置
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled" default:"false"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic" default:"inventory.history"`
}

// Enabled 是否启用了任一推送目标
func (c Config) Enabled() bool {
	return c.Redis.Enabled || c.NATS.Enabled || c.Kafka.Enabled
}
