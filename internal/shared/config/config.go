package config

import (
	"errors"
	"os"
	"path/filepath"
)

const defaultConfigRelPath = "configs/conf.yml"

// ErrNotFound 向上查找不到配置文件。
var ErrNotFound = errors.New("config file not exist")

// Resolve 定位配置文件：
// 1) cfgName 非空时按相对当前目录/绝对路径使用；
// 2) 否则从当前目录向上查找 configs/conf.yml。
func Resolve(cfgName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if cfgName != "" {
		if !filepath.IsAbs(cfgName) {
			cfgName = filepath.Join(curDir, cfgName)
		}
		if !fileExist(cfgName) {
			return "", ErrNotFound
		}
		return cfgName, nil
	}
	return findConfigUpward(curDir)
}

func findConfigUpward(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, defaultConfigRelPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// FindUpward 从当前目录向上找相对路径 rel（例如 gameconfig 文件）。
func FindUpward(rel string) (string, bool) {
	if filepath.IsAbs(rel) {
		return rel, fileExist(rel)
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, rel)
		if fileExist(candidate) {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
