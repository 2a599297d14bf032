package pipeline

import (
	"errors"
	"fmt"

	"companymap/internal/model"
)

// ErrRegionConflict 同一国家出现在多个区域中
var ErrRegionConflict = errors.New("country belongs to more than one region")

// Region 一个聚合区域
type Region struct {
	Name    string
	Label   string
	members map[string]struct{}
}

// Contains 判断国家键是否属于该区域
func (r Region) Contains(key string) bool {
	_, ok := r.members[key]
	return ok
}

// Size 成员数量
func (r Region) Size() int {
	return len(r.members)
}

// RegionSet 有序的区域集合，顺序即聚合节点在树中的输出顺序
type RegionSet struct {
	regions []Region
	owner   map[string]int
}

// NewRegionSet 根据配置构建区域集合，并校验重复归属
func NewRegionSet(defs []model.RegionDef) (*RegionSet, error) {
	set := &RegionSet{
		regions: make([]Region, 0, len(defs)),
		owner:   make(map[string]int),
	}

	labels := make(map[string]string, len(defs))
	for i, def := range defs {
		if def.Label == "" {
			return nil, fmt.Errorf("region #%d (%q): label is required", i+1, def.Name)
		}
		name := def.Name
		if name == "" {
			name = def.Label
		}
		labelKey := CountryKey(def.Label)
		if prev, ok := labels[labelKey]; ok {
			return nil, fmt.Errorf("region %q: label %q already used by region %q", name, def.Label, prev)
		}
		labels[labelKey] = name

		region := Region{
			Name:    name,
			Label:   def.Label,
			members: make(map[string]struct{}, len(def.Members)),
		}
		for _, member := range def.Members {
			key := CountryKey(member)
			if key == "" {
				continue
			}
			if idx, ok := set.owner[key]; ok && idx != i {
				return nil, fmt.Errorf("%w: %q in %q and %q", ErrRegionConflict, member, set.regions[idx].Name, name)
			}
			set.owner[key] = i
			region.members[key] = struct{}{}
		}
		set.regions = append(set.regions, region)
	}

	return set, nil
}

// Lookup 返回国家键所属区域的下标
func (s *RegionSet) Lookup(key string) (int, bool) {
	if s == nil {
		return 0, false
	}
	idx, ok := s.owner[key]
	return idx, ok
}

// Regions 返回区域列表（按配置顺序）
func (s *RegionSet) Regions() []Region {
	if s == nil {
		return nil
	}
	return s.regions
}

// Len 区域数量
func (s *RegionSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.regions)
}
