package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/catalog"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/domain"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/setup"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/snapshot"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeDocument(t *testing.T, data string) catalog.Document {
	t.Helper()
	var doc catalog.Document
	require.NoError(t, json.Unmarshal([]byte(data), &doc))
	return doc
}

func TestList_Text(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)

	liss := strings.Index(out, "Lissencephaly")
	micro := strings.Index(out, "Primary Microcephaly")
	pnh := strings.Index(out, "Periventricular Nodular Heterotopia")
	require.True(t, liss >= 0 && micro >= 0 && pnh >= 0, "missing a disorder in:\n%s", out)
	assert.Less(t, liss, micro)
	assert.Less(t, micro, pnh)
}

func TestList_Formats(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains string
		wantErr  bool
	}{
		{name: "markdown", args: []string{"list", "--format", "markdown"}, contains: "# Corticogenesis Disorders"},
		{name: "terminal", args: []string{"list", "-f", "terminal", "-w", "60"}, contains: "Lissencephaly"},
		{name: "json", args: []string{"list", "--format", "json"}, contains: `"version": "1.0"`},
		{name: "unknown format", args: []string{"list", "--format", "pdf"}, wantErr: true},
		{name: "negative width", args: []string{"list", "--width", "-1"}, wantErr: true},
		{name: "extra argument", args: []string{"list", "extra"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.contains)
		})
	}
}

func TestList_JSONOrder(t *testing.T) {
	out, err := execute(t, "list", "--format", "json")
	require.NoError(t, err)

	doc := decodeDocument(t, out)
	require.Len(t, doc.Disorders, 3)
	assert.Equal(t, catalog.DefaultTitle, doc.Title)
	assert.Equal(t, []string{"LIS1 (PAFAH1B1)", "DCX (Doublecortin)"}, doc.Disorders[0].GeneNames())
}

func TestShow(t *testing.T) {
	t.Run("by name", func(t *testing.T) {
		out, err := execute(t, "show", "lissencephaly", "--format", "markdown")
		require.NoError(t, err)
		assert.Contains(t, out, "LIS1 (PAFAH1B1)")
		assert.NotContains(t, out, "ASPM")
	})

	t.Run("multi-word name", func(t *testing.T) {
		out, err := execute(t, "show", "Primary", "Microcephaly", "-f", "json")
		require.NoError(t, err)
		doc := decodeDocument(t, out)
		require.Len(t, doc.Disorders, 1)
		assert.Equal(t, "Primary Microcephaly", doc.Disorders[0].Name)
	})

	t.Run("by id", func(t *testing.T) {
		out, err := execute(t, "show", catalog.DisorderID("Periventricular Nodular Heterotopia"), "-f", "json")
		require.NoError(t, err)
		doc := decodeDocument(t, out)
		require.Len(t, doc.Disorders, 1)
		assert.Equal(t, "Misplaced neurons", doc.Disorders[0].CommonName)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := execute(t, "show", "Polymicrogyria")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("no argument", func(t *testing.T) {
		_, err := execute(t, "show")
		assert.Error(t, err)
	})
}

func TestExport_RoundTripThroughCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")

	_, err := execute(t, "export", "--out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "disorders:")

	out, err := execute(t, "--catalog-file", path, "list", "--format", "json")
	require.NoError(t, err)

	doc := decodeDocument(t, out)
	want := catalog.Records()
	require.Len(t, doc.Disorders, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, doc.Disorders[i].ID)
		assert.Equal(t, want[i].GeneNames(), doc.Disorders[i].GeneNames())
	}
}

func TestExport_JSONToStdout(t *testing.T) {
	out, err := execute(t, "export", "--format", "json")
	require.NoError(t, err)
	assert.Len(t, decodeDocument(t, out).Disorders, 3)
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := execute(t, "export", "--format", "toml")
	assert.Error(t, err)
}

func TestSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap", "catalog.db")

	out, err := execute(t, "snapshot", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved 3 disorders")

	store, err := snapshot.NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	records, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 3)

	info, err := store.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultTitle, info.Title)
}

func TestSnapshot_UsableAsCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	_, err := execute(t, "snapshot", "--out", path)
	require.NoError(t, err)

	out, err := execute(t, "--catalog-file", path, "list", "--format", "json")
	require.NoError(t, err)

	doc := decodeDocument(t, out)
	want := catalog.Records()
	require.Len(t, doc.Disorders, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, doc.Disorders[i].ID)
		assert.Equal(t, want[i].GeneNames(), doc.Disorders[i].GeneNames())
	}
}

func TestSnapshotInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	_, err := execute(t, "snapshot", "--out", path)
	require.NoError(t, err)

	out, err := execute(t, "snapshot", "info", path)
	require.NoError(t, err)

	var info snapshot.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, catalog.DefaultTitle, info.Title)
	assert.Equal(t, 3, info.Records)
	assert.False(t, info.SavedAt.IsZero())
}

func TestSnapshotInfo_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.db")

	_, err := execute(t, "snapshot", "info", path)
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSnapshot_RequiresOut(t *testing.T) {
	_, err := execute(t, "snapshot")
	assert.Error(t, err)
}

func TestRoot_SetupErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing catalog file", args: []string{"--catalog-file", filepath.Join(t.TempDir(), "nope.yaml"), "list"}},
		{name: "missing config file", args: []string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "list"}},
		{name: "bad log level", args: []string{"--log-level", "loud", "list"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestRoot_InvalidCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"1.0\"\ndisorders:\n  - name: \"\"\n"), 0o644))

	_, err := execute(t, "--catalog-file", path, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load catalog")
}

func TestMCP_InstallStatusUninstall(t *testing.T) {
	dir := t.TempDir()
	clientConfig := filepath.Join(dir, "client.json")
	binary := filepath.Join(dir, "mcp-server")
	require.NoError(t, os.WriteFile(binary, []byte("#!/bin/sh\n"), 0o755))

	out, err := execute(t, "mcp", "install", "--client-config", clientConfig, "--binary", binary)
	require.NoError(t, err)
	assert.Contains(t, out, "Registered corticogenesis-catalog")

	out, err = execute(t, "mcp", "status", "--client-config", clientConfig)
	require.NoError(t, err)
	var status setup.Status
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.True(t, status.Registered)
	assert.Equal(t, binary, status.ServerPath)

	out, err = execute(t, "mcp", "uninstall", "--client-config", clientConfig)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed")

	out, err = execute(t, "mcp", "uninstall", "--client-config", clientConfig)
	require.NoError(t, err)
	assert.Contains(t, out, "was not registered")
}

func TestMCPInstall_ServerEnvironment(t *testing.T) {
	dir := t.TempDir()
	clientConfig := filepath.Join(dir, "client.json")
	binary := filepath.Join(dir, "mcp-server")
	require.NoError(t, os.WriteFile(binary, []byte("#!/bin/sh\n"), 0o755))

	t.Run("defaults leave env empty", func(t *testing.T) {
		_, err := execute(t, "mcp", "install", "--client-config", clientConfig, "--binary", binary)
		require.NoError(t, err)

		config, err := setup.LoadClientConfig(clientConfig)
		require.NoError(t, err)
		assert.Empty(t, config.MCPServers[setup.ServerName].Env)
	})

	t.Run("explicit log level and catalog", func(t *testing.T) {
		catalogFile := filepath.Join(dir, "catalog.yaml")
		_, err := execute(t, "export", "--out", catalogFile)
		require.NoError(t, err)

		_, err = execute(t, "--log-level", "debug", "--catalog-file", catalogFile,
			"mcp", "install", "--client-config", clientConfig, "--binary", binary)
		require.NoError(t, err)

		config, err := setup.LoadClientConfig(clientConfig)
		require.NoError(t, err)
		env := config.MCPServers[setup.ServerName].Env
		assert.Equal(t, "debug", env[setup.EnvLoggingLevel])
		assert.Equal(t, catalogFile, env[setup.EnvCatalogFile])
	})
}
