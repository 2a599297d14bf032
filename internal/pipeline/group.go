package pipeline

import (
	"fmt"

	"companymap/internal/model"
)

// orderedGroups 按首次出现顺序保存的 key -> 列表
type orderedGroups[T any] struct {
	order []string
	items map[string][]T
}

func newOrderedGroups[T any]() *orderedGroups[T] {
	return &orderedGroups[T]{items: make(map[string][]T)}
}

func (g *orderedGroups[T]) add(key string, values ...T) {
	if _, ok := g.items[key]; !ok {
		g.order = append(g.order, key)
	}
	g.items[key] = append(g.items[key], values...)
}

func (g *orderedGroups[T]) size() int {
	return len(g.order)
}

// sourcedEntry 第一步分组时保留行上的原始国家写法
type sourcedEntry struct {
	entry   model.CompanyEntry
	country string
}

type countryBucket struct {
	key   string
	label string // 首次出现的写法
	types *orderedGroups[sourcedEntry]
}

// grouping 分组引擎输出
type grouping struct {
	literal []*countryBucket
	regions []*orderedGroups[model.CompanyEntry] // 与 RegionSet 顺序一致
}

// groupRows 国家 -> 类型 -> 企业；再把区域成员国合并到对应区域
func groupRows(rows []model.RawRow, regions *RegionSet) grouping {
	// Step A
	var countries []*countryBucket
	byKey := make(map[string]*countryBucket)
	for _, row := range rows {
		key := CountryKey(row.Country)
		bucket, ok := byKey[key]
		if !ok {
			bucket = &countryBucket{
				key:   key,
				label: row.Country,
				types: newOrderedGroups[sourcedEntry](),
			}
			byKey[key] = bucket
			countries = append(countries, bucket)
		}
		bucket.types.add(row.Type, sourcedEntry{entry: newEntry(row), country: row.Country})
	}

	// Step B + C
	out := grouping{
		regions: make([]*orderedGroups[model.CompanyEntry], regions.Len()),
	}
	for i := range out.regions {
		out.regions[i] = newOrderedGroups[model.CompanyEntry]()
	}

	for _, bucket := range countries {
		if bucket.types.size() == 0 {
			continue
		}
		idx, ok := regions.Lookup(bucket.key)
		if !ok {
			out.literal = append(out.literal, bucket)
			continue
		}
		target := out.regions[idx]
		for _, typ := range bucket.types.order {
			sourced := bucket.types.items[typ]
			stamped := make([]model.CompanyEntry, len(sourced))
			for i, s := range sourced {
				stamped[i] = s.entry
				stamped[i].OriginalCountry = s.country
			}
			target.add(typ, stamped...)
		}
	}

	return out
}

func newEntry(row model.RawRow) model.CompanyEntry {
	id := row.ID
	if id == "" {
		id = FallbackID(row.RowIndex)
	}
	return model.CompanyEntry{
		ID:          id,
		Company:     row.Company,
		Year:        row.Year,
		Description: row.Description,
		Stream:      row.Stream,
		Links:       ParseLinks(row.Links),
		RowIndex:    row.RowIndex,
	}
}

// FallbackID 没有 id 列的旧数据使用工作表行号作为标识（表头占第 1 行）
func FallbackID(rowIndex int) string {
	return fmt.Sprintf("row-%d", rowIndex+2)
}
