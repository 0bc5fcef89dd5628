package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/study-planner/model"
)

func TestSeeder_SeedAll(t *testing.T) {
	store, err := StartSQLite(":memory:", nil)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Init())

	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	seeder := NewSeeder(store.GetDB(), now, time.UTC)
	user := SeedUser{Name: "Demo", Email: "demo@example.com", Password: "password123"}

	require.NoError(t, seeder.SeedAll(user))
	// second run is a no-op
	require.NoError(t, seeder.SeedAll(user))

	db := store.GetDB()
	var users, subjects, tasks, tests, revisions int64
	db.Model(&model.User{}).Count(&users)
	db.Model(&model.Subject{}).Count(&subjects)
	db.Model(&model.Task{}).Count(&tasks)
	db.Model(&model.Test{}).Count(&tests)
	db.Model(&model.Revision{}).Count(&revisions)

	assert.EqualValues(t, 1, users)
	assert.EqualValues(t, len(demoSubjects), subjects)
	assert.EqualValues(t, len(demoSubjects), tasks)
	assert.EqualValues(t, 1, tests)
	assert.EqualValues(t, len(demoSubjects), revisions)

	var revision model.Revision
	require.NoError(t, db.First(&revision).Error)
	assert.True(t, revision.NextRevisionDate.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)))
}

func TestSeeder_SkipsWithoutCredentials(t *testing.T) {
	store, err := StartSQLite(":memory:", nil)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Init())

	require.NoError(t, NewSeeder(store.GetDB(), time.Now(), nil).SeedAll(SeedUser{}))

	var users int64
	store.GetDB().Model(&model.User{}).Count(&users)
	assert.Zero(t, users)
}
