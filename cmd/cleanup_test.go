package cmd //nolint:testpackage // tests unexported functions

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/hktseng/iqsync/config"
)

func TestConfirmCleanup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "should accept a plain yes", input: "yes\n", want: true},
		{name: "should accept yes with surrounding whitespace", input: "  yes  \n", want: true},
		{name: "should reject no", input: "no\n", want: false},
		{name: "should reject uppercase YES", input: "YES\n", want: false},
		{name: "should reject an empty line", input: "\n", want: false},
		{name: "should reject input cut off before a newline", input: "yes", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			command := &cobra.Command{}
			command.SetIn(strings.NewReader(tt.input))
			units := []config.Organization{
				{ID: "org-1", Name: "Payments", ChineseName: "支付部"},
			}

			// when
			got := confirmCleanup(command, units)

			// then
			assert.Equal(t, tt.want, got)
		})
	}
}
