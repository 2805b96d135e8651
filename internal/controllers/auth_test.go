package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"playfolio/internal/middleware"
	"playfolio/internal/models"
	"playfolio/internal/services"
	"playfolio/internal/session"
	"playfolio/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, in)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type AuthControllerSuite struct {
	suite.Suite
	service    *MockUserService
	controller *AuthController
}

func (s *AuthControllerSuite) SetupTest() {
	s.service = &MockUserService{}
	s.controller = NewAuthController(s.service, discardLogger())
}

func (s *AuthControllerSuite) TearDownTest() {
	s.service.AssertExpectations(s.T())
}

func (s *AuthControllerSuite) TestRegister_Created() {
	s.service.On("Register", mock.Anything, services.RegisterInput{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "secret",
	}).Return(&models.User{ID: "u1"}, nil).Once()

	w := httptest.NewRecorder()
	s.controller.Register(w, httptest.NewRequest(http.MethodPost, "/api/auth/register", jsonBody(s.T(), map[string]string{
		"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com", "password": "secret",
	})))

	s.Equal(http.StatusCreated, w.Code)
	s.Equal("success", decode[statusResponse](s.T(), w).Status)
}

func (s *AuthControllerSuite) TestRegister_MissingField() {
	w := httptest.NewRecorder()
	s.controller.Register(w, httptest.NewRequest(http.MethodPost, "/api/auth/register", jsonBody(s.T(), map[string]string{
		"firstName": "Ada", "email": "ada@example.com", "password": "secret",
	})))

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("Invalid data", decode[messageResponse](s.T(), w).Message)
	s.service.AssertNotCalled(s.T(), "Register", mock.Anything, mock.Anything)
}

func (s *AuthControllerSuite) TestRegister_DuplicateEmail() {
	s.service.On("Register", mock.Anything, mock.Anything).Return(nil, storage.ErrExists).Once()

	w := httptest.NewRecorder()
	s.controller.Register(w, httptest.NewRequest(http.MethodPost, "/api/auth/register", jsonBody(s.T(), map[string]string{
		"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com", "password": "secret",
	})))

	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal("Unable to register user.", decode[messageResponse](s.T(), w).Message)
}

func (s *AuthControllerSuite) TestLogin_ReturnsUserWithoutHash() {
	s.service.On("Authenticate", mock.Anything, "ada@example.com", "secret").
		Return(&models.User{ID: "u1", Email: "ada@example.com", FirstName: "Ada", Password: "$2a$10$hash"}, nil).Once()

	w := httptest.NewRecorder()
	s.controller.Login(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", jsonBody(s.T(), map[string]string{
		"email": "ada@example.com", "password": "secret",
	})))

	s.Equal(http.StatusOK, w.Code)
	s.NotContains(w.Body.String(), "$2a$10$hash")
	s.Equal("u1", decode[models.User](s.T(), w).ID)
}

func (s *AuthControllerSuite) TestLogin_InvalidCredentials() {
	s.service.On("Authenticate", mock.Anything, "ada@example.com", "wrong").
		Return(nil, services.ErrInvalidCredentials).Once()

	w := httptest.NewRecorder()
	s.controller.Login(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", jsonBody(s.T(), map[string]string{
		"email": "ada@example.com", "password": "wrong",
	})))

	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Invalid credentials", decode[messageResponse](s.T(), w).Message)
}

func (s *AuthControllerSuite) TestLogin_StoreFailure() {
	s.service.On("Authenticate", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("db down")).Once()

	w := httptest.NewRecorder()
	s.controller.Login(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", jsonBody(s.T(), map[string]string{
		"email": "ada@example.com", "password": "secret",
	})))

	s.Equal(http.StatusInternalServerError, w.Code)
}

func (s *AuthControllerSuite) TestLogin_WrongMethod() {
	w := httptest.NewRecorder()
	s.controller.Login(w, httptest.NewRequest(http.MethodGet, "/api/auth/login", nil))

	s.Equal(http.StatusMethodNotAllowed, w.Code)
}

func (s *AuthControllerSuite) TestSession() {
	w := httptest.NewRecorder()
	s.controller.Session(w, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	s.JSONEq("{}", w.Body.String())

	r := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	r = r.WithContext(middleware.WithSessionUser(r.Context(), &session.User{ID: "u1", Name: "Ada Lovelace"}))
	w = httptest.NewRecorder()
	s.controller.Session(w, r)

	s.Equal(http.StatusOK, w.Code)
	s.Equal("Ada Lovelace", decode[session.User](s.T(), w).Name)
}

func TestAuthControllerSuite(t *testing.T) {
	suite.Run(t, new(AuthControllerSuite))
}

func TestParseDate(t *testing.T) {
	s := func(v string) *string { return &v }

	got, err := parseDate(s("2024-03-04"))
	assert.NoError(t, err)
	assert.Equal(t, 4, got.Day())

	got, err = parseDate(nil)
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseDate(s("04/03/2024"))
	assert.ErrorIs(t, err, ErrInvalidDate)
}
