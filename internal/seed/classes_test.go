package seed

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleClasses(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	now := time.Date(2026, 3, 1, 4, 0, 0, 500, time.UTC)

	classes := SampleClasses(now, kolkata)

	require.Len(t, classes, 4)
	assert.Equal(t, []string{"Yoga", "Zumba", "HIIT", "Spin"},
		[]string{classes[0].Name, classes[1].Name, classes[2].Name, classes[3].Name})
	assert.Equal(t, []int{10, 5, 1, 0},
		[]int{classes[0].AvailableSlots, classes[1].AvailableSlots, classes[2].AvailableSlots, classes[3].AvailableSlots})
	assert.Equal(t, "2026-03-01T09:30:00+05:30", classes[0].StartsAt.Format(time.RFC3339))
	assert.Equal(t, 72*time.Hour, classes[3].StartsAt.Sub(classes[0].StartsAt))
	for _, c := range classes {
		assert.Equal(t, "Asia/Kolkata", c.Timezone)
	}
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestClasses_ReplacesCatalog(t *testing.T) {
	mock := newMock(t)
	classes := SampleClasses(time.Now(), time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("TRUNCATE bookings, classes")).
		WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))
	for i, c := range classes {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO classes")).
			WithArgs(c.Name, c.StartsAt, c.Timezone, c.Instructor, c.AvailableSlots).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(i + 1)))
	}
	mock.ExpectCommit()

	require.NoError(t, Classes(context.Background(), mock, classes, zerolog.Nop()))

	for i, c := range classes {
		assert.Equal(t, int64(i+1), c.ID)
	}
}

func TestClasses_RollsBackOnFailure(t *testing.T) {
	mock := newMock(t)
	classes := SampleClasses(time.Now(), time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("TRUNCATE bookings, classes")).
		WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO classes")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := Classes(context.Background(), mock, classes, zerolog.Nop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Yoga")
}
