package serverconfig

import (
	"SpaceColony/internal/shared/config"
	"os"
	"sync"
)

var (
	mu   sync.RWMutex
	Conf Config
)

// Load 读取配置并开启热更新。热更新只影响运行期可调项（日志级别、限流）。
func Load(cfgName string, onChange func(Config)) error {
	path, err := config.Resolve(cfgName)
	if err != nil {
		return err
	}
	var staged Config
	_, err = config.Load(path, &staged, true, func(err error) {
		if err != nil {
			return
		}
		mu.Lock()
		Conf = withDefaults(staged)
		snapshot := Conf
		mu.Unlock()
		if onChange != nil {
			onChange(snapshot)
		}
	})
	if err != nil {
		return err
	}
	mu.Lock()
	Conf = withDefaults(staged)
	mu.Unlock()

	// 环境变量优先；未设置时回填配置中的 jwt_secret，方便本地开发。
	if os.Getenv("JWT_SECRET") == "" && staged.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", staged.JWTSecret)
	}
	return nil
}

// Get 并发安全地读取当前配置。
func Get() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Conf
}

func withDefaults(c Config) Config {
	if c.Colony.Port == 0 {
		c.Colony.Port = 8088
	}
	if c.Colony.WsPath == "" {
		c.Colony.WsPath = "/ws"
	}
	if c.Colony.TickMs <= 0 {
		c.Colony.TickMs = 250
	}
	if c.Colony.AskTimeoutMs <= 0 {
		c.Colony.AskTimeoutMs = 3000
	}
	if c.Colony.CommandRate <= 0 {
		c.Colony.CommandRate = 20
	}
	if c.Colony.CommandBurst <= 0 {
		c.Colony.CommandBurst = 40
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Storage.FlushEveryMs <= 0 {
		c.Storage.FlushEveryMs = 3000
	}
	if c.MongoDB.Collection == "" {
		c.MongoDB.Collection = "colony_sim"
	}
	if c.Archive.Spec == "" {
		c.Archive.Spec = "@every 10m"
	}
	if c.Archive.Codec == "" {
		c.Archive.Codec = "zstd"
	}
	if c.Logic.GameConfig == "" {
		c.Logic.GameConfig = "configs/gameconfig/colony.json"
	}
	return c
}
