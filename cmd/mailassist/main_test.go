package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ajramos/mailassist-tui/internal/config"
)

func TestGetServerURL_Priority(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.BaseURL = "http://configured:8000"

	assert.Equal(t, "http://flag:9000", getServerURL(" http://flag:9000 ", cfg))
	assert.Equal(t, "http://configured:8000", getServerURL("", cfg))

	cfg.Server.BaseURL = ""
	assert.Equal(t, "http://127.0.0.1:8000", getServerURL("", cfg))
}

func TestGetLogPath(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, config.DefaultLogPath(), getLogPath(cfg))

	cfg.LogFile = "/var/log/mailassist.log"
	assert.Equal(t, "/var/log/mailassist.log", getLogPath(cfg))

	cfg.LogFile = "~/logs/ma.log"
	assert.Equal(t, filepath.Join("logs", "ma.log"), filepath.Join(filepath.Base(filepath.Dir(getLogPath(cfg))), filepath.Base(getLogPath(cfg))))
}
