package pipeline

import "companymap/internal/model"

// assemble 字面国家在前（首次出现顺序），随后按区域配置顺序追加非空聚合节点
func assemble(name string, g grouping, regions *RegionSet) model.ProjectTree {
	tree := model.ProjectTree{
		Name:      name,
		Countries: make([]model.CountryNode, 0, len(g.literal)+len(g.regions)),
	}

	for _, bucket := range g.literal {
		node := model.CountryNode{
			Country: bucket.label,
			Types:   make([]model.TypeGroup, 0, bucket.types.size()),
		}
		for _, typ := range bucket.types.order {
			sourced := bucket.types.items[typ]
			companies := make([]model.CompanyEntry, len(sourced))
			for i, s := range sourced {
				companies[i] = s.entry
			}
			node.Types = append(node.Types, model.TypeGroup{Type: typ, Companies: companies})
		}
		tree.Countries = append(tree.Countries, node)
	}

	for i, region := range regions.Regions() {
		groups := g.regions[i]
		if groups.size() == 0 {
			continue
		}
		node := model.CountryNode{
			Country:   region.Label,
			Aggregate: true,
			Types:     make([]model.TypeGroup, 0, groups.size()),
		}
		for _, typ := range groups.order {
			node.Types = append(node.Types, model.TypeGroup{Type: typ, Companies: groups.items[typ]})
		}
		tree.Countries = append(tree.Countries, node)
	}

	return tree
}
