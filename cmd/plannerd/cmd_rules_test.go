package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRulesList(t *testing.T) {
	dir, _ := setupCLI(t, "", nil)
	writeRulesFile(t, dir, "web", "code_style: a\n")
	writeRulesFile(t, dir, "default", "code_style: b\n")

	cmd, out := testCommand("")
	require.NoError(t, runRulesList(cmd, nil))

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.True(t, bytes.HasPrefix(lines[0], []byte("default\t")))
	assert.True(t, bytes.HasPrefix(lines[1], []byte("web\t")))
	assert.Contains(t, string(lines[1]), filepath.Join(dir, "web.yaml"))
}

func TestRunRulesList_Empty(t *testing.T) {
	setupCLI(t, "", nil)

	cmd, out := testCommand("")
	require.NoError(t, runRulesList(cmd, nil))
	assert.Contains(t, out.String(), "No rules documents")
}

func TestRunRulesCheck(t *testing.T) {
	dir, _ := setupCLI(t, "", nil)
	writeRulesFile(t, dir, "good", "code_style: fine\n")
	writeRulesFile(t, dir, "bad", "code_style: [\n")

	cmd, out := testCommand("")
	err := runRulesCheck(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, out.String(), "FAIL bad")
	assert.Contains(t, out.String(), "ok   good")

	cmd, out = testCommand("")
	require.NoError(t, runRulesCheck(cmd, []string{"good"}))
	assert.Equal(t, "ok   good\n", out.String())

	cmd, _ = testCommand("")
	assert.ErrorContains(t, runRulesCheck(cmd, []string{"absent"}), "1 of 1")
}

func TestRootCommand_RulesListFromEnv(t *testing.T) {
	dir := t.TempDir()
	writeRulesFile(t, dir, "team", "code_style: x\n")
	t.Setenv("PLANNERD_RULES_DIR", dir)
	t.Setenv("PLANNERD_LOG_LEVEL", "error")

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"rules", "list", "--config", filepath.Join(t.TempDir(), "absent.yaml")})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "team\t")
	assert.Equal(t, dir, cfg.Rules.Dir)
}
