package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	. "authapi/pkg/test"
	"authapi/pkg/test/factory"

	"authapi/internal/adapter/database/sqlite"
	"authapi/internal/adapter/database/sqlite/repository"
	"authapi/internal/core/domain"
	"authapi/internal/core/port"
	"authapi/internal/core/telemetry"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type UserRepositoryTestSuite struct {
	suite.Suite
	db   *sqlite.DB
	repo port.UserRepository
}

func (s *UserRepositoryTestSuite) SetupTest() {
	s.db = InitTestDB()
	s.repo = repository.NewUserRepository(s.db, telemetry.NewNoOpProbe())
}

func (s *UserRepositoryTestSuite) TearDownTest() {
	s.db.Close()
}

func TestUserRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(UserRepositoryTestSuite))
}

func newUser(email string) domain.User {
	now := time.Now().UTC().Truncate(time.Second)

	return domain.User{
		UUID:              uuid.New(),
		Name:              "Test User",
		Email:             email,
		EncryptedPassword: "$2a$04$hash",
		Role:              domain.Profile,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func (s *UserRepositoryTestSuite) TestRepository_CreateUser_Success() {
	user, err := s.repo.Create(context.Background(), newUser("test@example.com"))

	assert.NoError(s.T(), err)
	assert.NotEmpty(s.T(), user.ID)
	assert.NotEmpty(s.T(), user.UUID)
	assert.Equal(s.T(), "Test User", user.Name)
	assert.Equal(s.T(), "test@example.com", user.Email)
	assert.Equal(s.T(), domain.Profile, user.Role)
	assert.False(s.T(), user.CreatedAt.IsZero())
}

func (s *UserRepositoryTestSuite) TestRepository_CreateUser_FromFactory() {
	built := factory.NewUser[domain.User](map[string]any{
		"Email": "factory@example.com",
		"Role":  domain.Admin,
	})

	user, err := s.repo.Create(context.Background(), built)

	Expect(err).ToNot(HaveOccurred())
	Expect(user.Email).To(Equal("factory@example.com"))
	Expect(user.Role).To(Equal(domain.Admin))
	Expect(user.EncryptedPassword).To(Equal(built.EncryptedPassword))
}

func (s *UserRepositoryTestSuite) TestRepository_CreateAssignsIDsFromOne() {
	ctx := context.Background()

	first, err := s.repo.Create(ctx, newUser("first@x.com"))
	Expect(err).ToNot(HaveOccurred())

	second, err := s.repo.Create(ctx, newUser("second@x.com"))
	Expect(err).ToNot(HaveOccurred())

	Expect(first.ID).To(Equal(1))
	Expect(second.ID).To(Equal(2))
}

func (s *UserRepositoryTestSuite) TestRepository_GetByEmail() {
	ctx := context.Background()

	created, _ := s.repo.Create(ctx, newUser("a@x.com"))

	found, err := s.repo.GetByEmail(ctx, "a@x.com")

	Expect(err).ToNot(HaveOccurred())
	Expect(found.ID).To(Equal(created.ID))
	Expect(found.UUID).To(Equal(created.UUID))
	Expect(found.EncryptedPassword).To(Equal("$2a$04$hash"))
}

func (s *UserRepositoryTestSuite) TestRepository_GetByEmail_IsExactMatch() {
	ctx := context.Background()

	s.repo.Create(ctx, newUser("a@x.com"))

	_, err := s.repo.GetByEmail(ctx, "A@X.COM")

	Expect(err).To(MatchError(domain.ErrNotFound))
}

func (s *UserRepositoryTestSuite) TestRepository_GetByEmail_NotFound() {
	_, err := s.repo.GetByEmail(context.Background(), "nouser@x.com")

	Expect(err).To(MatchError(domain.ErrNotFound))
}

func (s *UserRepositoryTestSuite) TestRepository_GetByID() {
	ctx := context.Background()

	created, _ := s.repo.Create(ctx, newUser("id@x.com"))

	found, err := s.repo.GetByID(ctx, created.ID)
	Expect(err).ToNot(HaveOccurred())
	Expect(found.Email).To(Equal("id@x.com"))

	_, err = s.repo.GetByID(ctx, created.ID+100)
	Expect(err).To(MatchError(domain.ErrNotFound))
}

func (s *UserRepositoryTestSuite) TestRepository_CreateUser_DuplicateEmail() {
	ctx := context.Background()

	first, err := s.repo.Create(ctx, newUser("dup@x.com"))
	Expect(err).ToNot(HaveOccurred())

	_, err = s.repo.Create(ctx, newUser("dup@x.com"))
	Expect(err).To(MatchError(domain.ErrConflict))

	kept, err := s.repo.GetByEmail(ctx, "dup@x.com")
	Expect(err).ToNot(HaveOccurred())
	Expect(kept.UUID).To(Equal(first.UUID))
}

func (s *UserRepositoryTestSuite) TestRepository_CreateUser_ConcurrentDuplicates() {
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 10)

	for i := range errs {
		index := i
		wg.Go(func() {
			_, errs[index] = s.repo.Create(ctx, newUser("race@x.com"))
		})
	}

	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}

		Expect(err).To(MatchError(domain.ErrConflict))
	}

	Expect(succeeded).To(Equal(1))
}
