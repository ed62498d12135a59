package main

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrateRejectsUnknownCommand(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"migrate", "sideways"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.ExecuteContext(context.Background())
	assert.Error(t, err)
}

func TestMigrateRequiresArgument(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"migrate"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	assert.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestMigrateRequiresPostgres(t *testing.T) {
	t.Setenv("TASKMATE_DATABASE_DRIVER", "memory")
	t.Setenv("TASKMATE_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("TASKMATE_SERVER_LOG_LEVEL", "error")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"migrate", "up"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.ExecuteContext(context.Background())
	assert.ErrorContains(t, err, "postgres")
}
