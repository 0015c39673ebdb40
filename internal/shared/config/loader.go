package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Loader 持有 viper 实例，热更新时重新解析到同一个目标。
type Loader struct {
	mu   sync.RWMutex
	v    *viper.Viper
	path string
}

// Load 读取 configPath 到 out（mapstructure tag）。watch 为 true 时监听文件变化，
// 解析成功后调用 onChange；解析失败保留旧值并把错误交给 onChange。
func Load(configPath string, out any, watch bool, onChange func(err error)) (*Loader, error) {
	if !fileExist(configPath) {
		return nil, fmt.Errorf("%w, configPath=%v", ErrNotFound, configPath)
	}
	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	l := &Loader{v: v, path: configPath}
	if err := l.decode(out); err != nil {
		return nil, err
	}

	if watch {
		v.OnConfigChange(func(e fsnotify.Event) {
			if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
				return
			}
			err := l.decode(out)
			if onChange != nil {
				onChange(err)
			}
		})
		v.WatchConfig()
	}
	return l, nil
}

func (l *Loader) decode(out any) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.v.Unmarshal(out, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.WeaklyTypedInput = true
	})
}

func (l *Loader) Path() string {
	return l.path
}

// GetString 直接读单个 key，给没有建模的零散配置用。
func (l *Loader) GetString(key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.v.GetString(key)
}
