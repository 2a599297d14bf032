package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"companymap/internal/config"
	"companymap/internal/pipeline"
	"companymap/internal/service/excel"
)

type treeOptions struct {
	file         string
	sortByStream bool
}

// newTreeCmd 离线把工作簿转换为 JSON 树
func newTreeCmd() *cobra.Command {
	opts := &treeOptions{}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "打印工作簿的项目树 (JSON)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			regions, err := config.LoadRegionSet(cfg)
			if err != nil {
				return err
			}

			f, err := os.Open(opts.file)
			if err != nil {
				return err
			}
			defer f.Close()

			sheet, err := excel.ReadSheet(f)
			if err != nil {
				return err
			}
			result, err := pipeline.New(regions, pipeline.WithDefaultProjectName(cfg.Pipeline.DefaultProjectName)).Run(sheet.Rows)
			if err != nil {
				return err
			}
			if opts.sortByStream {
				for i := range result.Tree.Countries {
					for j := range result.Tree.Countries[i].Types {
						group := &result.Tree.Countries[i].Types[j]
						group.Companies = pipeline.SortByStream(group.Companies)
					}
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "工作簿路径 (.xlsx)")
	cmd.Flags().BoolVar(&opts.sortByStream, "sort-stream", false, "企业按 Stream 排序")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
