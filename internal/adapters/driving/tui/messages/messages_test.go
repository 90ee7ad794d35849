package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view     ViewType
		expected string
	}{
		{ViewMenu, "menu"},
		{ViewSearch, "search"},
		{ViewDetails, "details"},
		{ViewStatus, "status"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
		{ViewType(-1), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.view.String())
		})
	}
}

func TestViewType_Distinct(t *testing.T) {
	views := []ViewType{ViewMenu, ViewSearch, ViewDetails, ViewStatus, ViewHelp}
	seen := make(map[ViewType]bool)
	for _, v := range views {
		assert.False(t, seen[v], "duplicate view value %d", v)
		seen[v] = true
	}
}
