package model

// RegionDef 聚合区域定义（来自 regions.toml）
type RegionDef struct {
	Name    string   `toml:"name" json:"name"`
	Label   string   `toml:"label" json:"label"`
	Members []string `toml:"members" json:"members"`
}
