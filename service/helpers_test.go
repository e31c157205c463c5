package service

import (
	"context"
	"testing"

	"legalaid-backend/database"
	"legalaid-backend/legal"
	"legalaid-backend/models"
	"legalaid-backend/repository"
	"legalaid-backend/storage"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	cases    *CaseService
	files    *AttachmentService
	auth     *AuthService
	storage  storage.Storage
	recorded int
}

func (f *fixture) CaseCreated() { f.recorded++ }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, database.DriverSQLite, "file::memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx))
	t.Cleanup(db.Close)

	st, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	pipeline := legal.NewPipeline(legal.MustLoadTables(), legal.PipelineConfig{StepsMode: legal.StepsStatic})

	f := &fixture{db: db.DB, storage: st}
	caseRepo := repository.NewCaseRepository(db.DB)
	f.cases = NewCaseService(
		CaseWithRepository(caseRepo),
		CaseWithFeedbackRepository(repository.NewFeedbackRepository(db.DB)),
		CaseWithPipeline(pipeline),
		CaseWithStorage(st),
		CaseWithRecorder(f),
	)
	f.files = NewAttachmentService(repository.NewAttachmentRepository(db.DB), caseRepo, st, nil)
	f.auth = NewAuthService(repository.NewUserRepository(db.DB), "test-secret", 0, AuthWithBcryptCost(bcrypt.MinCost))
	return f
}

func (f *fixture) user(t *testing.T, username string, location *string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", HashedPassword: "x", Location: location, IsActive: true}
	require.NoError(t, repository.NewUserRepository(f.db).Create(context.Background(), u))
	return u
}

func strPtr(s string) *string { return &s }
