package agents

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/auth"
	"github.com/fleetdesk/fleetdesk-backend/pkg/config"
	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
	"github.com/fleetdesk/fleetdesk-backend/pkg/security"
)

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

type stubAgentRepo struct {
	byID map[uuid.UUID]*models.AegisUser
}

func newStubAgentRepo() *stubAgentRepo {
	return &stubAgentRepo{byID: map[uuid.UUID]*models.AegisUser{}}
}

func (s *stubAgentRepo) Create(_ context.Context, agent *models.AegisUser) error {
	copied := *agent
	s.byID[agent.ID] = &copied
	return nil
}

func (s *stubAgentRepo) FindByID(_ context.Context, id uuid.UUID) (*models.AegisUser, error) {
	agent, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *agent
	return &copied, nil
}

func (s *stubAgentRepo) FindByEmail(_ context.Context, email string) (*models.AegisUser, error) {
	lowered := strings.ToLower(strings.TrimSpace(email))
	for _, agent := range s.byID {
		if strings.ToLower(agent.Email) == lowered {
			copied := *agent
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAgentRepo) List(_ context.Context, companyID *uuid.UUID, _ pagination.Params) ([]models.AegisUser, int64, error) {
	var out []models.AegisUser
	for _, agent := range s.byID {
		if companyID != nil && (agent.CompanyID == nil || *agent.CompanyID != *companyID) {
			continue
		}
		out = append(out, *agent)
	}
	return out, int64(len(out)), nil
}

func (s *stubAgentRepo) Update(_ context.Context, agent *models.AegisUser) error {
	copied := *agent
	s.byID[agent.ID] = &copied
	return nil
}

func (s *stubAgentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.byID, id)
	return nil
}

type agentFixture struct {
	svc       Service
	repo      *stubAgentRepo
	companyID uuid.UUID
	admin     Actor
	agent     Actor
	agentID   uuid.UUID
}

func newAgentFixture(t *testing.T) *agentFixture {
	t.Helper()

	repo := newStubAgentRepo()
	svc, err := NewService(repo, testJWTCfg, testPasswordCfg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	companyID := uuid.New()
	seed := func(role enums.AgentRole, company *uuid.UUID, email string) uuid.UUID {
		hash, err := security.HashPassword("agent-pass-phrase", testPasswordCfg)
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		id := uuid.New()
		repo.byID[id] = &models.AegisUser{
			ID:           id,
			CompanyID:    company,
			Email:        email,
			PasswordHash: hash,
			Name:         "Seed Agent",
			Role:         role,
			Active:       true,
		}
		return id
	}

	adminID := seed(enums.AgentRoleAdmin, &companyID, "admin@coastal.example")
	agentID := seed(enums.AgentRoleAgent, &companyID, "agent@coastal.example")

	return &agentFixture{
		svc:       svc,
		repo:      repo,
		companyID: companyID,
		admin:     Actor{AgentID: adminID, CompanyID: &companyID, Role: enums.AgentRoleAdmin},
		agent:     Actor{AgentID: agentID, CompanyID: &companyID, Role: enums.AgentRoleAgent},
		agentID:   agentID,
	}
}

func assertAgentCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != want {
		t.Fatalf("expected code %s, got %v", want, err)
	}
}

func TestAgentLoginMintsAgentToken(t *testing.T) {
	f := newAgentFixture(t)

	result, err := f.svc.Login(context.Background(), "agent@coastal.example", "agent-pass-phrase")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := auth.ParseAccessToken(testJWTCfg, result.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Kind != enums.PrincipalKindAgent {
		t.Fatalf("expected agent principal kind, got %s", claims.Kind)
	}
	if claims.Role != string(enums.AgentRoleAgent) {
		t.Fatalf("unexpected role claim %s", claims.Role)
	}
}

func TestAgentLoginRejectsBadCredentials(t *testing.T) {
	f := newAgentFixture(t)

	_, err := f.svc.Login(context.Background(), "agent@coastal.example", "wrong")
	assertAgentCode(t, err, pkgerrors.CodeUnauthorized)

	_, err = f.svc.Login(context.Background(), "ghost@coastal.example", "agent-pass-phrase")
	assertAgentCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestAgentReadsOnlySelf(t *testing.T) {
	f := newAgentFixture(t)

	self, err := f.svc.GetByID(context.Background(), f.agent, f.agentID)
	if err != nil {
		t.Fatalf("GetByID self: %v", err)
	}
	if self.ID != f.agentID {
		t.Fatal("expected own record")
	}

	_, err = f.svc.GetByID(context.Background(), f.agent, f.admin.AgentID)
	assertAgentCode(t, err, pkgerrors.CodeNotFound)

	_, _, err = f.svc.List(context.Background(), f.agent, pagination.Params{Page: 1, PageSize: 25})
	assertAgentCode(t, err, pkgerrors.CodeForbidden)
}

func TestAdminCreatesAgentsInOwnCompanyOnly(t *testing.T) {
	f := newAgentFixture(t)

	foreign := uuid.New()
	created, err := f.svc.Create(context.Background(), f.admin, CreateAgentInput{
		CompanyID: &foreign,
		Email:     "new.agent@coastal.example",
		Password:  "long-enough-pass",
		Name:      "New Agent",
		Role:      "agent",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.CompanyID == nil || *created.CompanyID != f.companyID {
		t.Fatal("admin-created agent must land in the admin's company")
	}

	_, err = f.svc.Create(context.Background(), f.admin, CreateAgentInput{
		Email:    "new.admin@coastal.example",
		Password: "long-enough-pass",
		Name:     "New Admin",
		Role:     "admin",
	})
	assertAgentCode(t, err, pkgerrors.CodeForbidden)
}

func TestAdminCannotManageOtherAdmins(t *testing.T) {
	f := newAgentFixture(t)

	otherAdmin := uuid.New()
	f.repo.byID[otherAdmin] = &models.AegisUser{
		ID:        otherAdmin,
		CompanyID: &f.companyID,
		Email:     "peer@coastal.example",
		Name:      "Peer Admin",
		Role:      enums.AgentRoleAdmin,
		Active:    true,
	}

	active := false
	_, err := f.svc.Update(context.Background(), f.admin, otherAdmin, UpdateAgentInput{Active: &active})
	assertAgentCode(t, err, pkgerrors.CodeForbidden)

	err = f.svc.Delete(context.Background(), f.admin, otherAdmin)
	assertAgentCode(t, err, pkgerrors.CodeForbidden)
}

func TestAgentUpdatePreservesOmittedFields(t *testing.T) {
	f := newAgentFixture(t)

	name := "Renamed Agent"
	updated, err := f.svc.Update(context.Background(), f.admin, f.agentID, UpdateAgentInput{Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Renamed Agent" {
		t.Fatalf("unexpected name %s", updated.Name)
	}
	if updated.Role != enums.AgentRoleAgent || !updated.Active {
		t.Fatal("omitted fields must be preserved")
	}
}

func TestDeleteMissingAgentNotFound(t *testing.T) {
	f := newAgentFixture(t)

	err := f.svc.Delete(context.Background(), f.admin, uuid.New())
	assertAgentCode(t, err, pkgerrors.CodeNotFound)
}
