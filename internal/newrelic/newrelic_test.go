package newrelic

import (
	"bytes"
	"testing"

	"release-tracker/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeDisabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{name: "disabled", cfg: &config.Config{NewRelicAppName: "release-tracker"}},
		{name: "enabled without license", cfg: &config.Config{NewRelicAppName: "release-tracker", NewRelicEnabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, err := Initialize(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, app)
		})
	}
}

func TestNewRelicLogger(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetLevel(logrus.InfoLevel)
	l := newRelicLogger{logger: logrus.NewEntry(base)}

	l.Info("harvest complete", map[string]interface{}{"events": 3})
	assert.Contains(t, buf.String(), "harvest complete")
	assert.Contains(t, buf.String(), "events=3")

	assert.False(t, l.DebugEnabled())
	base.SetLevel(logrus.DebugLevel)
	assert.True(t, l.DebugEnabled())
}
