package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedCabinets struct {
	calls   int
	failFor int
	list    []Cabinet
}

func (s *scriptedCabinets) AllCabinets(context.Context) ([]Cabinet, error) {
	s.calls++
	if s.calls <= s.failFor {
		return nil, errors.New("unavailable")
	}
	return s.list, nil
}

func TestCabinetDirectoryNamesUnnamedCabinets(t *testing.T) {
	source := &scriptedCabinets{list: []Cabinet{{ID: "7", Name: "Москва"}, {ID: "9"}}}
	dir := NewCabinetDirectory(source, WithCabinetBackoff(0))

	list, err := dir.Cabinets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Cabinet{{ID: "7", Name: "Москва"}, {ID: "9", Name: "Кабинет 9"}}, list)
}

func TestCabinetDirectoryRetriesTwice(t *testing.T) {
	source := &scriptedCabinets{failFor: 2, list: []Cabinet{{ID: "1", Name: "A"}}}
	dir := NewCabinetDirectory(source, WithCabinetBackoff(0))

	list, err := dir.Cabinets(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 3, source.calls)
}

func TestCabinetDirectoryFallsBackAfterRetries(t *testing.T) {
	source := &scriptedCabinets{failFor: 10}
	dir := NewCabinetDirectory(source, WithCabinetBackoff(0))

	list, err := dir.Cabinets(context.Background())
	require.Error(t, err)
	assert.Equal(t, FallbackCabinets(), list)
	assert.Equal(t, []Cabinet{{ID: "all", Name: "Все кабинеты"}}, list)
	assert.Equal(t, 3, source.calls)

	// the fallback is not cached, so the next call hits the source again
	_, _ = dir.Cabinets(context.Background())
	assert.Equal(t, 6, source.calls)
}

func TestCabinetDirectoryCachesForTTL(t *testing.T) {
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	source := &scriptedCabinets{list: []Cabinet{{ID: "1", Name: "A"}}}
	dir := NewCabinetDirectory(source, WithCabinetBackoff(0))
	dir.now = func() time.Time { return now }

	_, _ = dir.Cabinets(context.Background())
	now = now.Add(59 * time.Minute)
	_, _ = dir.Cabinets(context.Background())
	assert.Equal(t, 1, source.calls)

	now = now.Add(2 * time.Minute)
	_, _ = dir.Cabinets(context.Background())
	assert.Equal(t, 2, source.calls)

	dir.Invalidate()
	_, _ = dir.Cabinets(context.Background())
	assert.Equal(t, 3, source.calls)
}
