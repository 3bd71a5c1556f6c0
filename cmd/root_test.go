package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"serve", "context", "profile", "session", "budget", "advise", "status", "migrate"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "advisor-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestContextCommand_Flags(t *testing.T) {
	flag := contextCmd.Flags().Lookup("user")
	require.NotNil(t, flag, "context command should have --user flag")

	jsonFlag := contextCmd.Flags().Lookup("json")
	require.NotNil(t, jsonFlag, "context command should have --json flag")
	assert.Equal(t, "false", jsonFlag.DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestAdviseCommand_Flags(t *testing.T) {
	for _, flagName := range []string{"user", "show-context"} {
		flag := adviseCmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "advise should have --%s flag", flagName)
	}
}

func TestProfileCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range profileCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"get", "set"} {
		assert.True(t, names[name], "profile should have subcommand %q", name)
	}
}

func TestSessionCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range sessionCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"set", "clear"} {
		assert.True(t, names[name], "session should have subcommand %q", name)
	}
}

func TestBudgetCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range budgetCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"load", "show"} {
		assert.True(t, names[name], "budget should have subcommand %q", name)
	}
}

func TestStatusCommand_Flags(t *testing.T) {
	flag := statusCmd.Flags().Lookup("hours")
	require.NotNil(t, flag, "status command should have --hours flag")
	assert.Equal(t, "24", flag.DefValue)
}
