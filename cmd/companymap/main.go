package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "companymap",
		Short:         "Companymap - 企业地图数据服务",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件 (默认: 可执行文件同目录下的 config.toml)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newTreeCmd())
	rootCmd.AddCommand(newInitCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
