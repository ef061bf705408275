package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketbayes/market-bayes/pkg/learning"
)

func TestUseSnapshot(t *testing.T) {
	dir := t.TempDir()
	saved := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(saved, []byte("{}"), 0o644))
	missing := filepath.Join(dir, "absent.json")

	tests := []struct {
		name    string
		mode    learning.Mode
		retrain bool
		path    string
		want    bool
	}{
		{"test mode with saved model", learning.ModeTest, false, saved, true},
		{"test mode without saved model", learning.ModeTest, false, missing, false},
		{"test mode retrain", learning.ModeTest, true, saved, false},
		{"train mode always retrains", learning.ModeTrain, false, saved, false},
		{"train mode retrain", learning.ModeTrain, true, saved, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, useSnapshot(tt.mode, tt.retrain, tt.path))
		})
	}
}
