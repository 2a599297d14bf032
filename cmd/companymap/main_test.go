package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companymap/internal/config"
	"companymap/internal/model"
	"companymap/internal/pipeline"
	"companymap/internal/service/excel"
)

func TestTreeCommand(t *testing.T) {
	dir := t.TempDir()
	sheet := excel.NewSheet()
	sheet.Rows = []model.Row{
		{"NameOfWork": "Карта", "Country": "Россия", "Type": "Банк", "Company": "Б", "Stream": "2"},
		{"Country": "Россия", "Type": "Банк", "Company": "А", "Stream": "1"},
		{"Country": "Франция", "Type": "Авто", "Company": "Renault"},
	}
	data, err := excel.NewExporter().Export(sheet)
	require.NoError(t, err)
	path := filepath.Join(dir, "book.xlsx")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", filepath.Join(dir, "missing.toml"), "tree", "--file", path, "--sort-stream"})
	require.NoError(t, cmd.Execute())

	var result pipeline.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "Карта", result.Tree.Name)
	require.Len(t, result.Tree.Countries, 2)
	assert.Equal(t, "Европа", result.Tree.Countries[1].Country)
	assert.Equal(t, "А", result.Tree.Countries[0].Types[0].Companies[0].Company)
}

func TestTreeCommand_RequiresFile(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"tree"})
	assert.Error(t, cmd.Execute())
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	run := func(args ...string) error {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs(append([]string{"--config", path, "init"}, args...))
		return cmd.Execute()
	}

	require.NoError(t, run())
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Server.Port, cfg.Server.Port)

	assert.Error(t, run())
	assert.NoError(t, run("--force"))
}
