package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"companymap/internal/pipeline"
)

// AppConfig 应用配置
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Regions  RegionsConfig  `toml:"regions"`
	Persist  PersistConfig  `toml:"persist"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir      string `toml:"data_dir"`
	WorkbookFile string `toml:"workbook_file"`
	AutoBackup   bool   `toml:"auto_backup"`
}

// PipelineConfig 流水线配置
type PipelineConfig struct {
	DefaultProjectName string `toml:"default_project_name"`
}

// RegionsConfig 区域配置，File 为空时使用内置 regions.toml
type RegionsConfig struct {
	File string `toml:"file"`
}

// PersistConfig 工作簿读写位置：RemoteURL 为空时读写本地文件，
// 否则从 {RemoteURL}/newData.xlsx 读取并上传到 {RemoteURL}/api/saveExcel
type PersistConfig struct {
	RemoteURL      string `toml:"remote_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout 远端请求超时
func (c PersistConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	PortSpecified bool
	Path          string
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir:      "data",
			WorkbookFile: "newData.xlsx",
			AutoBackup:   true,
		},
		Pipeline: PipelineConfig{
			DefaultProjectName: pipeline.DefaultProjectName,
		},
		Persist: PersistConfig{
			TimeoutSeconds: 30,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultConfigPath 可执行文件同目录下的 config.toml
func DefaultConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息；path 为空时使用默认位置
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, info, err
		}
		// 配置文件不存在，使用默认配置
	} else {
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	}

	applyEnv(config, &info)
	return config, info, nil
}

// applyEnv 环境变量覆盖（用于容器 / 本地运行）
func applyEnv(config *AppConfig, info *LoadConfigInfo) {
	if v := os.Getenv("COMPANYMAP_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("COMPANYMAP_REGIONS_FILE"); v != "" {
		config.Regions.File = v
	}
	if v := os.Getenv("COMPANYMAP_REMOTE_URL"); v != "" {
		config.Persist.RemoteURL = v
	}
	if v := os.Getenv("COMPANYMAP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			config.Server.Port = port
			info.PortSpecified = true
		}
	}
}

// LoadConfig 从 config.toml 加载配置
func LoadConfig(path string) (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo(path)
	return config, err
}

// SaveConfig 保存配置到 path
func SaveConfig(path string, config *AppConfig) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolveDataDir 相对路径的数据目录位于可执行文件同目录下
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}

// EnsureDataDir 确保数据目录及子目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"uploads", "backups"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// WorkbookPath 服务器端工作簿文件路径
func WorkbookPath(config *AppConfig, dataDir string) string {
	if filepath.IsAbs(config.Data.WorkbookFile) {
		return config.Data.WorkbookFile
	}
	return filepath.Join(dataDir, config.Data.WorkbookFile)
}
