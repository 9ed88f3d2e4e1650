package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ardnew/cottle/log"
)

func TestLogConfig_Scan(t *testing.T) {
	t.Cleanup(func() {
		log.Config(
			log.WithLevel(log.DefaultLevel),
			log.WithFormat(log.DefaultFormat),
			log.WithCaller(false),
			log.WithPretty(true),
			log.WithTimeLayout("RFC3339"),
		)
	})

	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "separate values",
			args: []string{"render", "--log-level", "debug", "--log-format", "json", "file.tmpl"},
			want: logConfig{Level: "debug", Format: "json", Pretty: true},
		},
		{
			name: "assigned values",
			args: []string{"--log-level=trace", "--log-time-layout=none"},
			want: logConfig{Level: "trace", TimeLayout: "none", Pretty: true},
		},
		{
			name: "booleans",
			args: []string{"--no-log-pretty", "--log-caller"},
			want: logConfig{Caller: true},
		},
		{
			name: "assigned booleans",
			args: []string{"--log-pretty=false", "--no-log-caller=false", "--log-caller=bogus"},
			want: logConfig{Caller: true},
		},
		{
			name: "value that looks like a flag",
			args: []string{"--log-level", "--log-caller"},
			want: logConfig{Caller: true, Pretty: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := logConfig{Pretty: true}
			cfg.scan(tt.args)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestLogConfig_Vars(t *testing.T) {
	vars := (&logConfig{}).vars()

	assert.Equal(t, "trace,debug,info,warn,error", vars["logLevelEnum"])
	assert.Equal(t, "text,json", vars["logFormatEnum"])
}

func TestLogConfig_Start(t *testing.T) {
	t.Cleanup(func() {
		log.Config(log.WithLevel(log.DefaultLevel), log.WithFormat(log.DefaultFormat))
	})

	cfg := logConfig{Level: "error", Format: "json", TimeLayout: "none"}
	cfg.start(t.Context())

	assert.Equal(t, log.LevelError, log.Default().Level())
	assert.Equal(t, log.FormatJSON, log.Default().Format())
}
