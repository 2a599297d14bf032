package workbook

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"companymap/internal/metrics"
	"companymap/internal/model"
	"companymap/internal/pipeline"
	"companymap/internal/service/excel"
	"companymap/internal/service/records"
	"companymap/internal/store"
)

// RevisionLog 保存历史
type RevisionLog interface {
	CreateRevision(ctx context.Context, rev store.Revision) (int64, error)
}

// Deps 服务依赖
type Deps struct {
	Backend  Backend
	Pipeline *pipeline.Pipeline
	History  RevisionLog
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	NewID    records.IDFunc
}

// Service 工作簿服务：每次请求读取新的快照，写操作串行执行
type Service struct {
	backend  Backend
	pipeline *pipeline.Pipeline
	history  RevisionLog
	metrics  *metrics.Metrics
	logger   *zap.Logger
	newID    records.IDFunc
	exporter *excel.Exporter

	mu sync.Mutex
}

// NewService 创建工作簿服务
func NewService(deps Deps) *Service {
	s := &Service{
		backend:  deps.Backend,
		pipeline: deps.Pipeline,
		history:  deps.History,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		newID:    deps.NewID,
		exporter: excel.NewExporter(),
	}
	if s.pipeline == nil {
		s.pipeline = pipeline.New(nil)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.newID == nil {
		s.newID = records.NewID
	}
	return s
}

// TableRow 表格视图的一行
type TableRow struct {
	ID          string               `json:"id"`
	RowIndex    int                  `json:"rowIndex"`
	Country     string               `json:"country"`
	Group       string               `json:"group"`
	Type        string               `json:"type"`
	Company     string               `json:"company"`
	Year        string               `json:"year"`
	Description string               `json:"description"`
	Stream      string               `json:"stream,omitempty"`
	StreamColor string               `json:"streamColor"`
	Links       []string             `json:"links,omitempty"`
	Key         records.CompositeKey `json:"key"`
}

// Options 编辑表单的候选值
type Options struct {
	Countries []string `json:"countries"`
	Types     []string `json:"types"`
	Streams   []string `json:"streams"`
}

// Status 工作簿状态
type Status struct {
	Backend  string `json:"backend"`
	Exists   bool   `json:"exists"`
	FileSize int64  `json:"fileSize"`
	FileHash string `json:"fileHash,omitempty"`
	Rows     int    `json:"rows"`
}

// Snapshot 读取并解析当前工作簿
func (s *Service) Snapshot(ctx context.Context) (*excel.Sheet, error) {
	data, err := s.backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	return excel.ReadSheetBytes(data)
}

// Tree 当前工作簿的项目树；sortByStream 时每个类型下的企业按 Stream 排序
func (s *Service) Tree(ctx context.Context, sortByStream bool) (*pipeline.Result, error) {
	sheet, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	result, err := s.run(sheet)
	if err != nil {
		return nil, err
	}
	if sortByStream {
		for i := range result.Tree.Countries {
			types := result.Tree.Countries[i].Types
			for j := range types {
				types[j].Companies = pipeline.SortByStream(types[j].Companies)
			}
		}
	}
	return result, nil
}

func (s *Service) run(sheet *excel.Sheet) (*pipeline.Result, error) {
	result, err := s.pipeline.Run(sheet.Rows)
	dropped := 0
	if result != nil {
		dropped = result.Dropped
	}
	s.metrics.ObservePipeline(err, dropped)
	if err != nil {
		return nil, err
	}
	if result.Dropped > 0 {
		s.logger.Info("rows dropped", zap.Int("dropped", result.Dropped), zap.Int("rows", len(sheet.Rows)))
	}
	return result, nil
}

// Table 表格视图，顺序与树一致
func (s *Service) Table(ctx context.Context) ([]TableRow, error) {
	sheet, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	result, err := s.run(sheet)
	if err != nil {
		return nil, err
	}

	out := make([]TableRow, 0, len(sheet.Rows))
	for _, node := range result.Tree.Countries {
		for _, group := range node.Types {
			for _, entry := range group.Companies {
				row := sheet.Rows[entry.RowIndex]
				country := entry.OriginalCountry
				if country == "" {
					country = node.Country
				}
				out = append(out, TableRow{
					ID:          strings.TrimSpace(row.Get(model.ColumnID)),
					RowIndex:    entry.RowIndex,
					Country:     country,
					Group:       node.Country,
					Type:        group.Type,
					Company:     entry.Company,
					Year:        entry.Year,
					Description: entry.Description,
					Stream:      entry.Stream,
					StreamColor: pipeline.StreamColor(entry.Stream),
					Links:       entry.Links,
					Key:         records.KeyOf(row),
				})
			}
		}
	}
	return out, nil
}

// Options 去重排序后的国家、类型和 Stream
func (s *Service) Options(ctx context.Context) (*Options, error) {
	sheet, err := s.Snapshot(ctx)
	if err != nil {
		if errors.Is(err, ErrWorkbookMissing) {
			return &Options{Countries: []string{}, Types: []string{}, Streams: []string{}}, nil
		}
		return nil, err
	}

	collect := func(column string) []string {
		values := make([]string, 0, len(sheet.Rows))
		for _, row := range sheet.Rows {
			if v := strings.TrimSpace(row.Get(column)); v != "" {
				values = append(values, v)
			}
		}
		slices.Sort(values)
		return slices.Compact(values)
	}

	streams := collect(model.ColumnStream)
	slices.SortStableFunc(streams, compareStreams)

	return &Options{
		Countries: collect(model.ColumnCountry),
		Types:     collect(model.ColumnType),
		Streams:   streams,
	}, nil
}

// compareStreams 数字在前按数值，其余按字符串
func compareStreams(a, b string) int {
	na, okA := pipeline.ParseStream(a)
	nb, okB := pipeline.ParseStream(b)
	switch {
	case okA && okB:
		if na != nb {
			return na - nb
		}
		return strings.Compare(a, b)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// Append 追加记录，返回新 id
func (s *Service) Append(ctx context.Context, in records.Input) (string, error) {
	return s.mutate(ctx, store.ActionAppend, func(sheet *excel.Sheet) (model.Row, error) {
		if _, err := records.Append(sheet, in, s.newID); err != nil {
			return nil, err
		}
		return sheet.Rows[len(sheet.Rows)-1], nil
	})
}

// Update 编辑记录，返回记录 id（旧数据在本次保存时获得 id）
func (s *Service) Update(ctx context.Context, ref records.Ref, in records.Input) (string, error) {
	return s.mutate(ctx, store.ActionUpdate, func(sheet *excel.Sheet) (model.Row, error) {
		return records.Update(sheet, ref, in)
	})
}

// Delete 删除记录，返回被删除行的 id（旧数据为空）
func (s *Service) Delete(ctx context.Context, ref records.Ref) (string, error) {
	return s.mutate(ctx, store.ActionDelete, func(sheet *excel.Sheet) (model.Row, error) {
		return records.Delete(sheet, ref)
	})
}

// mutate 读取 -> 修改 -> 补齐 id -> 导出 -> 保存；fn 失败时不写入
func (s *Service) mutate(ctx context.Context, action string, fn func(*excel.Sheet) (model.Row, error)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sheet, err := s.Snapshot(ctx)
	if errors.Is(err, ErrWorkbookMissing) {
		sheet = excel.NewSheet()
	} else if err != nil {
		return "", err
	}

	row, err := fn(sheet)
	if err != nil {
		return "", err
	}
	records.EnsureIDs(sheet, s.newID)
	recordID := row.Get(model.ColumnID)

	data, err := s.exporter.Export(sheet)
	if err != nil {
		return "", fmt.Errorf("export workbook: %w", err)
	}
	if err := s.persist(ctx, action, recordID, data, len(sheet.Rows)); err != nil {
		return "", err
	}
	return recordID, nil
}

// Upload 用上传的工作簿整体替换；缺少 id 的行会补齐后再保存
func (s *Service) Upload(ctx context.Context, fileName string, data []byte) (int, error) {
	sheet, err := excel.ReadSheetBytes(data)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if minted := records.EnsureIDs(sheet, s.newID); minted > 0 {
		data, err = s.exporter.Export(sheet)
		if err != nil {
			return 0, fmt.Errorf("export workbook: %w", err)
		}
		s.logger.Info("ids assigned on upload", zap.String("file", fileName), zap.Int("minted", minted))
	}
	if err := s.persist(ctx, store.ActionUpload, "", data, len(sheet.Rows)); err != nil {
		return 0, err
	}
	return len(sheet.Rows), nil
}

// Bootstrap 启动时为旧数据补齐 id；工作簿不存在时什么也不做
func (s *Service) Bootstrap(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sheet, err := s.Snapshot(ctx)
	if err != nil {
		if errors.Is(err, ErrWorkbookMissing) {
			s.logger.Info("workbook not found, waiting for upload", zap.String("backend", s.backend.Name()))
			return 0, nil
		}
		return 0, err
	}

	minted := records.EnsureIDs(sheet, s.newID)
	if minted == 0 {
		return 0, nil
	}
	data, err := s.exporter.Export(sheet)
	if err != nil {
		return 0, fmt.Errorf("export workbook: %w", err)
	}
	if err := s.persist(ctx, store.ActionInit, "", data, len(sheet.Rows)); err != nil {
		return 0, err
	}
	s.logger.Info("ids assigned", zap.Int("minted", minted))
	return minted, nil
}

// WorkbookBytes 当前工作簿原始内容
func (s *Service) WorkbookBytes(ctx context.Context) ([]byte, error) {
	return s.backend.Load(ctx)
}

// Status 工作簿状态
func (s *Service) Status(ctx context.Context) (*Status, error) {
	st := &Status{Backend: s.backend.Name()}
	data, err := s.backend.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrWorkbookMissing) {
			return st, nil
		}
		return nil, err
	}
	st.Exists = true
	st.FileSize = int64(len(data))
	st.FileHash = hashBytes(data)
	if sheet, err := excel.ReadSheetBytes(data); err == nil {
		st.Rows = len(sheet.Rows)
	}
	return st, nil
}

func (s *Service) persist(ctx context.Context, action, recordID string, data []byte, rowCount int) error {
	err := s.backend.Persist(ctx, data)
	if err != nil {
		var perr *records.PersistenceError
		if !errors.As(err, &perr) {
			err = &records.PersistenceError{Cause: err}
		}
	}
	s.metrics.ObserveSave(action, err)

	rev := store.Revision{
		Action:   action,
		RecordID: recordID,
		FileName: s.backend.Name(),
		FileSize: int64(len(data)),
		FileHash: hashBytes(data),
		RowCount: rowCount,
		Status:   store.StatusSuccess,
	}
	if err != nil {
		rev.Status = store.StatusFailed
		rev.Message = err.Error()
		s.logger.Error("save workbook failed", zap.String("action", action), zap.Error(err))
	} else {
		s.logger.Info("workbook saved",
			zap.String("action", action),
			zap.String("record_id", recordID),
			zap.Int("rows", rowCount),
		)
	}
	if s.history != nil {
		if _, herr := s.history.CreateRevision(ctx, rev); herr != nil {
			s.logger.Warn("record revision failed", zap.Error(herr))
		}
	}
	return err
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Regions 当前区域配置
func (s *Service) Regions() *pipeline.RegionSet {
	return s.pipeline.Regions()
}
