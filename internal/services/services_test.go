package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"task-manager.com/task-manager/internal/auth"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect database")
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Task{}), "failed to migrate database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

type testEnv struct {
	db    *gorm.DB
	users *UserService
	tasks *TaskService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	issuer := auth.NewTokenIssuer("test-secret", time.Minute, time.Hour)
	return &testEnv{
		db:    db,
		users: NewUserService(repository.NewUserRepository(db), issuer, zap.NewNop()),
		tasks: NewTaskService(repository.NewTaskRepository(db), zap.NewNop()),
	}
}

func (e *testEnv) register(t *testing.T, email, phone string) *model.User {
	t.Helper()

	user, err := e.users.Register(context.Background(), RegisterInput{
		FirstName:       "Test",
		LastName:        "User",
		Email:           email,
		PhoneNumber:     phone,
		Password:        "pw1",
		ConfirmPassword: "pw1",
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) countUsers(t *testing.T, email string) int64 {
	t.Helper()

	var n int64
	require.NoError(t, e.db.Model(&model.User{}).Where("email = ?", email).Count(&n).Error)
	return n
}

func ptr[T any](v T) *T { return &v }
