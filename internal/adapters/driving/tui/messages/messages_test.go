package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{ViewMenu, "menu"},
		{ViewInterview, "interview"},
		{ViewHistory, "history"},
		{ViewDiseases, "diseases"},
		{ViewSettings, "settings"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.String())
		})
	}
}
