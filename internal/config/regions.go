package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"companymap/internal/model"
	"companymap/internal/pipeline"
)

//go:embed regions.toml
var defaultRegionsTOML []byte

type regionsFile struct {
	Regions []model.RegionDef `toml:"region"`
}

// ParseRegions 解析区域定义
func ParseRegions(data []byte) ([]model.RegionDef, error) {
	var file regionsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse regions: %w", err)
	}
	return file.Regions, nil
}

// DefaultRegions 内置区域定义
func DefaultRegions() ([]model.RegionDef, error) {
	return ParseRegions(defaultRegionsTOML)
}

// LoadRegionSet 加载区域配置（未配置文件时使用内置定义）并校验
func LoadRegionSet(cfg *AppConfig) (*pipeline.RegionSet, error) {
	var (
		defs []model.RegionDef
		err  error
	)
	if cfg != nil && cfg.Regions.File != "" {
		data, readErr := os.ReadFile(cfg.Regions.File)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read regions file: %w", readErr)
		}
		defs, err = ParseRegions(data)
	} else {
		defs, err = DefaultRegions()
	}
	if err != nil {
		return nil, err
	}

	set, err := pipeline.NewRegionSet(defs)
	if err != nil {
		return nil, fmt.Errorf("invalid regions: %w", err)
	}
	return set, nil
}
