package users

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/config"
	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
	"github.com/fleetdesk/fleetdesk-backend/pkg/security"
)

// Cheap parameters keep Argon2id fast in tests.
var testPasswordCfg = config.PasswordConfig{
	ArgonMemoryKB:    1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

var testJWTCfg = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "fleetdesk-test",
	ExpirationMinutes: 60,
}

type stubUserRepo struct {
	byID    map[uuid.UUID]*models.User
	deleted []uuid.UUID
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: map[uuid.UUID]*models.User{}}
}

func (s *stubUserRepo) Create(_ context.Context, user *models.User) error {
	copied := *user
	s.byID[user.ID] = &copied
	return nil
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	lowered := strings.ToLower(strings.TrimSpace(email))
	for _, user := range s.byID {
		if strings.ToLower(user.Email) == lowered {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) List(_ context.Context, companyID *uuid.UUID, _ pagination.Params) ([]models.User, int64, error) {
	var out []models.User
	for _, user := range s.byID {
		if companyID != nil && (user.CompanyID == nil || *user.CompanyID != *companyID) {
			continue
		}
		out = append(out, *user)
	}
	return out, int64(len(out)), nil
}

func (s *stubUserRepo) Update(_ context.Context, user *models.User) error {
	copied := *user
	s.byID[user.ID] = &copied
	return nil
}

func (s *stubUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.byID, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type userFixture struct {
	svc       Service
	repo      *stubUserRepo
	companyID uuid.UUID
	mainadmin Actor
	admin     Actor
	worker    Actor
	workerID  uuid.UUID
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	repo := newStubUserRepo()
	svc, err := NewService(repo, testJWTCfg, testPasswordCfg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	companyID := uuid.New()
	seed := func(role enums.StaffRole, company *uuid.UUID, email string) uuid.UUID {
		hash, err := security.HashPassword("hunter2-hunter2", testPasswordCfg)
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		id := uuid.New()
		repo.byID[id] = &models.User{
			ID:           id,
			CompanyID:    company,
			Email:        email,
			PasswordHash: hash,
			FirstName:    "Test",
			LastName:     "User",
			Role:         role,
			Active:       true,
		}
		return id
	}

	mainadminID := seed(enums.StaffRoleMainAdmin, nil, "root@fleetdesk.io")
	adminID := seed(enums.StaffRoleAdmin, &companyID, "admin@coastal.example")
	workerID := seed(enums.StaffRoleWorker, &companyID, "worker@coastal.example")

	return &userFixture{
		svc:       svc,
		repo:      repo,
		companyID: companyID,
		mainadmin: Actor{UserID: mainadminID, Role: enums.StaffRoleMainAdmin},
		admin:     Actor{UserID: adminID, CompanyID: &companyID, Role: enums.StaffRoleAdmin},
		worker:    Actor{UserID: workerID, CompanyID: &companyID, Role: enums.StaffRoleWorker},
		workerID:  workerID,
	}
}

func assertUserCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != want {
		t.Fatalf("expected code %s, got %v", want, err)
	}
}

func TestLoginMintsToken(t *testing.T) {
	f := newUserFixture(t)

	result, err := f.svc.Login(context.Background(), "Worker@Coastal.Example", "hunter2-hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a token")
	}
	if result.User.Role != enums.StaffRoleWorker {
		t.Fatalf("unexpected role %s", result.User.Role)
	}
	if f.repo.byID[f.workerID].LastLoginAt == nil {
		t.Fatal("expected last login to be recorded")
	}
}

func TestLoginRejectsBadPasswordAndUnknownEmailAlike(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.svc.Login(context.Background(), "worker@coastal.example", "wrong-password")
	assertUserCode(t, err, pkgerrors.CodeUnauthorized)

	_, err = f.svc.Login(context.Background(), "ghost@coastal.example", "hunter2-hunter2")
	assertUserCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	f := newUserFixture(t)
	f.repo.byID[f.workerID].Active = false

	_, err := f.svc.Login(context.Background(), "worker@coastal.example", "hunter2-hunter2")
	assertUserCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestAdminListScopedToOwnCompany(t *testing.T) {
	f := newUserFixture(t)

	rows, _, err := f.svc.List(context.Background(), f.admin, pagination.Params{Page: 1, PageSize: 25})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, row := range rows {
		if row.CompanyID == nil || *row.CompanyID != f.companyID {
			t.Fatalf("admin list leaked user %s outside their company", row.Email)
		}
	}

	all, _, err := f.svc.List(context.Background(), f.mainadmin, pagination.Params{Page: 1, PageSize: 25})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("mainadmin should see all 3 users, got %d", len(all))
	}
}

func TestWorkerCannotList(t *testing.T) {
	f := newUserFixture(t)

	_, _, err := f.svc.List(context.Background(), f.worker, pagination.Params{Page: 1, PageSize: 25})
	assertUserCode(t, err, pkgerrors.CodeForbidden)
}

func TestWorkerReadsOnlySelf(t *testing.T) {
	f := newUserFixture(t)

	self, err := f.svc.GetByID(context.Background(), f.worker, f.workerID)
	if err != nil {
		t.Fatalf("GetByID self: %v", err)
	}
	if self.ID != f.workerID {
		t.Fatal("expected own record")
	}

	_, err = f.svc.GetByID(context.Background(), f.worker, f.admin.UserID)
	assertUserCode(t, err, pkgerrors.CodeNotFound)
}

func TestAdminCreatesWorkersOnlyInOwnCompany(t *testing.T) {
	f := newUserFixture(t)

	otherCompany := uuid.New()
	created, err := f.svc.Create(context.Background(), f.admin, CreateUserInput{
		CompanyID: &otherCompany,
		Email:     "new.worker@coastal.example",
		Password:  "long-enough-pass",
		FirstName: "New",
		LastName:  "Worker",
		Role:      "worker",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.CompanyID == nil || *created.CompanyID != f.companyID {
		t.Fatal("admin-created worker must land in the admin's company")
	}

	_, err = f.svc.Create(context.Background(), f.admin, CreateUserInput{
		Email:     "new.admin@coastal.example",
		Password:  "long-enough-pass",
		FirstName: "New",
		LastName:  "Admin",
		Role:      "admin",
	})
	assertUserCode(t, err, pkgerrors.CodeForbidden)
}

func TestAdminCannotManageOtherAdmins(t *testing.T) {
	f := newUserFixture(t)

	active := false
	_, err := f.svc.Update(context.Background(), f.admin, f.admin.UserID, UpdateUserInput{Active: &active})
	// The admin's own record carries the admin role, which an admin may not manage.
	assertUserCode(t, err, pkgerrors.CodeForbidden)

	err = f.svc.Delete(context.Background(), f.admin, f.mainadmin.UserID)
	assertUserCode(t, err, pkgerrors.CodeForbidden)
}

func TestAdminCannotPromoteWorker(t *testing.T) {
	f := newUserFixture(t)

	role := "admin"
	_, err := f.svc.Update(context.Background(), f.admin, f.workerID, UpdateUserInput{Role: &role})
	assertUserCode(t, err, pkgerrors.CodeForbidden)

	if f.repo.byID[f.workerID].Role != enums.StaffRoleWorker {
		t.Fatal("worker role must be unchanged after rejected promotion")
	}
}

func TestUpdatePreservesOmittedFields(t *testing.T) {
	f := newUserFixture(t)

	first := "Renamed"
	updated, err := f.svc.Update(context.Background(), f.mainadmin, f.workerID, UpdateUserInput{FirstName: &first})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.FirstName != "Renamed" || updated.LastName != "User" {
		t.Fatalf("unexpected names after partial update: %s %s", updated.FirstName, updated.LastName)
	}
}

func TestDeleteOwnAccountRejected(t *testing.T) {
	f := newUserFixture(t)

	err := f.svc.Delete(context.Background(), f.mainadmin, f.mainadmin.UserID)
	assertUserCode(t, err, pkgerrors.CodeValidation)
}

func TestDeleteMissingUserNotFound(t *testing.T) {
	f := newUserFixture(t)

	err := f.svc.Delete(context.Background(), f.mainadmin, uuid.New())
	assertUserCode(t, err, pkgerrors.CodeNotFound)
	if len(f.repo.deleted) != 0 {
		t.Fatal("nothing should be deleted")
	}
}

func TestCreateValidatesInput(t *testing.T) {
	f := newUserFixture(t)

	cases := []struct {
		name  string
		input CreateUserInput
	}{
		{"bad email", CreateUserInput{Email: "not-an-email", Password: "long-enough-pass", FirstName: "A", LastName: "B", Role: "worker"}},
		{"short password", CreateUserInput{Email: "ok@example.com", Password: "short", FirstName: "A", LastName: "B", Role: "worker"}},
		{"bad role", CreateUserInput{Email: "ok@example.com", Password: "long-enough-pass", FirstName: "A", LastName: "B", Role: "superuser"}},
		{"missing name", CreateUserInput{Email: "ok@example.com", Password: "long-enough-pass", FirstName: "", LastName: "B", Role: "worker"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), f.mainadmin, tc.input)
			assertUserCode(t, err, pkgerrors.CodeValidation)
		})
	}
}
