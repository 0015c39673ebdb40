package serverconfig

type Config struct {
	Colony    ColonyServerConfig `yaml:"colony" mapstructure:"colony"`
	Storage   StorageConfig      `yaml:"storage" mapstructure:"storage"`
	MySQL     MySQLConfig        `yaml:"mysql" mapstructure:"mysql"`
	MongoDB   MongoDBConfig      `yaml:"mongodb" mapstructure:"mongodb"`
	Journal   JournalConfig      `yaml:"journal" mapstructure:"journal"`
	Archive   ArchiveConfig      `yaml:"archive" mapstructure:"archive"`
	Log       LogConfig          `yaml:"log" mapstructure:"log"`
	Logic     LogicConfig        `yaml:"logic" mapstructure:"logic"`
	JWTSecret string             `yaml:"jwt_secret" mapstructure:"jwt_secret"`
}

type ColonyServerConfig struct {
	Host       string `yaml:"host" mapstructure:"host"`
	Port       int    `yaml:"port" mapstructure:"port"`
	GrpcPort   int    `yaml:"grpc_port" mapstructure:"grpc_port"`
	WsPath     string `yaml:"ws_path" mapstructure:"ws_path"`
	NeedSecret bool   `yaml:"need_secret" mapstructure:"need_secret"`
	NeedAuth   bool   `yaml:"need_auth" mapstructure:"need_auth"`
	IsDev      bool   `yaml:"is_dev" mapstructure:"is_dev"`
	// 模拟推进间隔，定时器本身的步长在 gameconfig 里
	TickMs       int     `yaml:"tick_ms" mapstructure:"tick_ms"`
	AskTimeoutMs int     `yaml:"ask_timeout_ms" mapstructure:"ask_timeout_ms"`
	CommandRate  float64 `yaml:"command_rate" mapstructure:"command_rate"` // 每秒
	CommandBurst int     `yaml:"command_burst" mapstructure:"command_burst"`
}

// StorageConfig driver: memory / mongodb / mysql
type StorageConfig struct {
	Driver       string `yaml:"driver" mapstructure:"driver"`
	FlushEveryMs int    `yaml:"flush_every_ms" mapstructure:"flush_every_ms"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
	// AutoMigrate 开发环境自动建表
	AutoMigrate bool `yaml:"auto_migrate" mapstructure:"auto_migrate"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	Collection      string `yaml:"collection" mapstructure:"collection"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type JournalConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Dir     string `yaml:"dir" mapstructure:"dir"`
	Spec    string `yaml:"spec" mapstructure:"spec"`   // cron 表达式
	Codec   string `yaml:"codec" mapstructure:"codec"` // zstd / lz4
	Keep    int    `yaml:"keep" mapstructure:"keep"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

type LogicConfig struct {
	GameConfig string `yaml:"game_config" mapstructure:"game_config"`
	ServerID   int    `yaml:"server_id" mapstructure:"server_id"`
}
