// Package pipeline 把工作表行整理为 项目 -> 国家 -> 类型 -> 企业 的树。
// 每次运行都是纯函数：相同输入得到完全相同的输出，不保留任何跨次状态。
package pipeline

import (
	"go.uber.org/zap"

	"companymap/internal/model"
)

// Result 一次运行的结果
type Result struct {
	Tree     model.ProjectTree `json:"tree"`
	Subtitle string            `json:"subtitle"`
	Dropped  int               `json:"dropped"`
}

// Pipeline 数据转换流水线
type Pipeline struct {
	regions     *RegionSet
	defaultName string
	logger      *zap.Logger
}

// Option 流水线选项
type Option func(*Pipeline)

// WithDefaultProjectName 设置缺省项目名
func WithDefaultProjectName(name string) Option {
	return func(p *Pipeline) {
		if name != "" {
			p.defaultName = name
		}
	}
}

// WithLogger 设置日志
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New 创建流水线；regions 为 nil 时不做区域聚合
func New(regions *RegionSet, opts ...Option) *Pipeline {
	p := &Pipeline{
		regions:     regions,
		defaultName: DefaultProjectName,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Regions 当前使用的区域集合
func (p *Pipeline) Regions() *RegionSet {
	return p.regions
}

// Run 摄取 -> 分组 -> 组装
func (p *Pipeline) Run(rows []model.Row) (*Result, error) {
	if len(rows) == 0 {
		return nil, &MalformedSourceError{Cause: ErrNoRows}
	}

	ingested := Ingest(rows, p.defaultName)
	grouped := groupRows(ingested.Rows, p.regions)
	tree := assemble(ingested.ProjectName, grouped, p.regions)

	p.logger.Debug("pipeline run",
		zap.Int("rows", len(rows)),
		zap.Int("valid", len(ingested.Rows)),
		zap.Int("dropped", ingested.Dropped),
		zap.Int("countries", len(tree.Countries)),
	)

	if len(tree.Countries) == 0 {
		return nil, &EmptyResultError{Rows: len(rows), Dropped: ingested.Dropped}
	}

	return &Result{
		Tree:     tree,
		Subtitle: ingested.SecondProjectName,
		Dropped:  ingested.Dropped,
	}, nil
}
