package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hktseng/iqsync/domain"
)

func TestSummary(t *testing.T) {
	t.Parallel()

	t.Run("Add", func(t *testing.T) {
		t.Parallel()

		t.Run("should sum every counter", func(t *testing.T) {
			t.Parallel()

			// given
			a := domain.Summary{Created: 1, Skipped: 2, Scanned: 3, Failed: 4, Deleted: 5}
			b := domain.Summary{Created: 10, Skipped: 20, Scanned: 30, Failed: 40, Deleted: 50}

			// when
			sum := a.Add(b)

			// then
			assert.Equal(t, domain.Summary{Created: 11, Skipped: 22, Scanned: 33, Failed: 44, Deleted: 55}, sum)
		})

		t.Run("should leave both operands unchanged", func(t *testing.T) {
			t.Parallel()

			// given
			a := domain.Summary{Created: 1}
			b := domain.Summary{Failed: 2}

			// when
			_ = a.Add(b)

			// then
			assert.Equal(t, domain.Summary{Created: 1}, a)
			assert.Equal(t, domain.Summary{Failed: 2}, b)
		})
	})

	t.Run("String", func(t *testing.T) {
		t.Parallel()

		t.Run("should render all counters on one line", func(t *testing.T) {
			t.Parallel()

			// given
			s := domain.Summary{Created: 1, Skipped: 2, Scanned: 3, Failed: 4, Deleted: 5}

			// when
			out := s.String()

			// then
			assert.Equal(t, "created=1 skipped=2 scanned=3 failed=4 deleted=5", out)
		})
	})
}
