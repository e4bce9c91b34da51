package database_test

import (
	"testing"

	"ecr/config"
	"ecr/internal/database"
	"ecr/internal/domain"
	"ecr/internal/models"
	"ecr/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedAdminOnce(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := &config.AdminConfig{Email: "admin@x.com", Password: "s3cret!", Name: "Admin"}

	require.NoError(t, database.SeedAdmin(db, cfg))
	require.NoError(t, database.SeedAdmin(db, cfg))

	var admins []models.User
	require.NoError(t, db.Where("role = ?", domain.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.True(t, admins[0].Verified)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admins[0].PasswordHash), []byte("s3cret!")))
}

func TestSeedAdminSkippedWithoutPassword(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, database.SeedAdmin(db, &config.AdminConfig{Email: "admin@x.com"}))

	var n int64
	db.Model(&models.User{}).Count(&n)
	assert.Zero(t, n)
}
