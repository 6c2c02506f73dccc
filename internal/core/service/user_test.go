package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	. "authapi/pkg/test"

	"authapi/internal/adapter/database/sqlite"
	"authapi/internal/adapter/database/sqlite/repository"
	"authapi/internal/core/domain"
	"authapi/internal/core/port"
	"authapi/internal/core/service"
	"authapi/internal/core/telemetry"
)

type UserServiceTestSuite struct {
	suite.Suite
	db      *sqlite.DB
	service *service.UserService
	repo    port.UserRepository
}

func (s *UserServiceTestSuite) SetupTest() {
	s.db = InitTestDB()
	probe := telemetry.NewNoOpProbe()

	repo := repository.NewUserRepository(s.db, probe)

	s.service = service.NewUserService(repo)
	s.repo = repo
}

func (s *UserServiceTestSuite) TearDownTest() {
	s.db.Close()
}

func TestUserServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)

	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) TestService_GetUserByID_Success() {
	created, err := s.repo.Create(context.Background(), domain.User{
		UUID:  uuid.New(),
		Name:  "Test User",
		Email: "test@example.com",
	})
	Expect(err).ToNot(HaveOccurred())

	user, err := s.service.GetUserByID(context.Background(), created.ID)

	Expect(err).ToNot(HaveOccurred())
	Expect(user.ID).To(Equal(created.ID))
	Expect(user.UUID).To(Equal(created.UUID))
	Expect(user.Name).To(Equal("Test User"))
	Expect(user.Email).To(Equal("test@example.com"))
}

func (s *UserServiceTestSuite) TestService_GetUserByID_NotFound() {
	_, err := s.service.GetUserByID(context.Background(), 999)

	Expect(err).To(MatchError(domain.ErrNotFound))
}
