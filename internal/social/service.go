package social

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/instagram"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
)

var postTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type socialRepository interface {
	ListScheduledPosts(ctx context.Context, companyID uuid.UUID, params pagination.Params) ([]models.ScheduledPost, int64, error)
	CreateScheduledPost(ctx context.Context, post *models.ScheduledPost) error
	FindScheduledPostByID(ctx context.Context, id uuid.UUID) (*models.ScheduledPost, error)
	UpdateScheduledPost(ctx context.Context, post *models.ScheduledPost) error
	DeleteScheduledPost(ctx context.Context, id uuid.UUID) error

	ListTemplates(ctx context.Context, companyID uuid.UUID) ([]models.SocialPostTemplate, error)
	CreateTemplate(ctx context.Context, template *models.SocialPostTemplate) error
	FindTemplateByID(ctx context.Context, id uuid.UUID) (*models.SocialPostTemplate, error)
	UpdateTemplate(ctx context.Context, template *models.SocialPostTemplate) error
	DeleteTemplate(ctx context.Context, id uuid.UUID) error

	GetAutoPostSettings(ctx context.Context, companyID uuid.UUID) (*models.CompanyAutoPostSettings, error)
	UpsertAutoPostSettings(ctx context.Context, settings *models.CompanyAutoPostSettings) error

	CreateVehiclePost(ctx context.Context, post *models.VehicleSocialPost) error
	FindVehiclePostByID(ctx context.Context, id uuid.UUID) (*models.VehicleSocialPost, error)
	CreateAnalytics(ctx context.Context, analytics *models.SocialPostAnalytics) error
	ListAnalytics(ctx context.Context, companyID uuid.UUID) ([]models.SocialPostAnalytics, error)
}

type companyFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

type vehicleFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
}

type instagramPublisher interface {
	Publish(ctx context.Context, in instagram.PublishInput) (*instagram.PublishResult, error)
	FetchInsights(ctx context.Context, mediaID, accessToken string) (*instagram.Insights, error)
}

// Service exposes scheduled posting, templates, auto-post settings and
// publish-now for vehicles.
type Service interface {
	ListScheduledPosts(ctx context.Context, companyID uuid.UUID, params pagination.Params) ([]ScheduledPostDTO, int64, error)
	GetScheduledPost(ctx context.Context, companyID, id uuid.UUID) (*ScheduledPostDTO, error)
	CreateScheduledPost(ctx context.Context, companyID uuid.UUID, input CreateScheduledPostInput) (*ScheduledPostDTO, error)
	UpdateScheduledPost(ctx context.Context, companyID, id uuid.UUID, input UpdateScheduledPostInput) (*ScheduledPostDTO, error)
	CancelScheduledPost(ctx context.Context, companyID, id uuid.UUID) (*ScheduledPostDTO, error)
	DeleteScheduledPost(ctx context.Context, companyID, id uuid.UUID) error
	PublishScheduledPost(ctx context.Context, companyID, id uuid.UUID) (*ScheduledPostDTO, error)

	ListTemplates(ctx context.Context, companyID uuid.UUID) ([]TemplateDTO, error)
	CreateTemplate(ctx context.Context, companyID uuid.UUID, name, body string) (*TemplateDTO, error)
	UpdateTemplate(ctx context.Context, companyID, id uuid.UUID, name, body *string) (*TemplateDTO, error)
	DeleteTemplate(ctx context.Context, companyID, id uuid.UUID) error

	GetAutoPostSettings(ctx context.Context, companyID uuid.UUID) (*AutoPostSettingsDTO, error)
	PutAutoPostSettings(ctx context.Context, companyID uuid.UUID, input AutoPostSettingsInput) (*AutoPostSettingsDTO, error)

	PublishVehicle(ctx context.Context, companyID, vehicleID uuid.UUID, caption string) (*VehiclePostDTO, error)
	RefreshAnalytics(ctx context.Context, companyID, vehiclePostID uuid.UUID) (*AnalyticsDTO, error)
	ListAnalytics(ctx context.Context, companyID uuid.UUID) ([]AnalyticsDTO, error)
}

type service struct {
	repo      socialRepository
	companies companyFinder
	vehicles  vehicleFinder
	publisher instagramPublisher
	now       func() time.Time
}

// NewService wires social posting to its collaborators.
func NewService(repo socialRepository, companies companyFinder, vehicles vehicleFinder, publisher instagramPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("social repository required")
	}
	if companies == nil || vehicles == nil {
		return nil, fmt.Errorf("social lookups required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("instagram publisher required")
	}
	return &service{
		repo:      repo,
		companies: companies,
		vehicles:  vehicles,
		publisher: publisher,
		now:       time.Now,
	}, nil
}

// CreateScheduledPostInput captures the fields accepted when queueing a post.
type CreateScheduledPostInput struct {
	VehicleID   *uuid.UUID
	Caption     string
	ImageURL    string
	ScheduledAt time.Time
}

// UpdateScheduledPostInput captures the allowed fields for mutation.
type UpdateScheduledPostInput struct {
	Caption     *string
	ImageURL    *string
	ScheduledAt *time.Time
}

// AutoPostSettingsInput captures the full settings row for a PUT.
type AutoPostSettingsInput struct {
	Enabled     bool
	PostTimeUTC string
	TemplateID  *uuid.UUID
}

func (s *service) ListScheduledPosts(ctx context.Context, companyID uuid.UUID, params pagination.Params) ([]ScheduledPostDTO, int64, error) {
	rows, total, err := s.repo.ListScheduledPosts(ctx, companyID, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list scheduled posts")
	}
	dtos := make([]ScheduledPostDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *ScheduledPostFromModel(&rows[i]))
	}
	return dtos, total, nil
}

func (s *service) GetScheduledPost(ctx context.Context, companyID, id uuid.UUID) (*ScheduledPostDTO, error) {
	post, err := s.loadScopedPost(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return ScheduledPostFromModel(post), nil
}

func (s *service) CreateScheduledPost(ctx context.Context, companyID uuid.UUID, input CreateScheduledPostInput) (*ScheduledPostDTO, error) {
	caption := strings.TrimSpace(input.Caption)
	imageURL := strings.TrimSpace(input.ImageURL)
	switch {
	case caption == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "caption is required")
	case imageURL == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
	case !input.ScheduledAt.After(s.now()):
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduled time must be in the future")
	}

	post := &models.ScheduledPost{
		ID:          uuid.New(),
		CompanyID:   companyID,
		VehicleID:   input.VehicleID,
		Caption:     caption,
		ImageURL:    imageURL,
		ScheduledAt: input.ScheduledAt,
		Status:      enums.PostStatusScheduled,
	}
	if err := s.repo.CreateScheduledPost(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create scheduled post")
	}
	return ScheduledPostFromModel(post), nil
}

func (s *service) UpdateScheduledPost(ctx context.Context, companyID, id uuid.UUID, input UpdateScheduledPostInput) (*ScheduledPostDTO, error) {
	post, err := s.loadScopedPost(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if post.Status != enums.PostStatusScheduled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only scheduled posts can be edited")
	}

	if input.Caption != nil {
		caption := strings.TrimSpace(*input.Caption)
		if caption == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "caption cannot be empty")
		}
		post.Caption = caption
	}
	if input.ImageURL != nil {
		imageURL := strings.TrimSpace(*input.ImageURL)
		if imageURL == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "image url cannot be empty")
		}
		post.ImageURL = imageURL
	}
	if input.ScheduledAt != nil {
		if !input.ScheduledAt.After(s.now()) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduled time must be in the future")
		}
		post.ScheduledAt = *input.ScheduledAt
	}

	if err := s.repo.UpdateScheduledPost(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update scheduled post")
	}
	return ScheduledPostFromModel(post), nil
}

func (s *service) CancelScheduledPost(ctx context.Context, companyID, id uuid.UUID) (*ScheduledPostDTO, error) {
	post, err := s.loadScopedPost(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if post.Status != enums.PostStatusScheduled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only scheduled posts can be cancelled")
	}

	post.Status = enums.PostStatusCancelled
	if err := s.repo.UpdateScheduledPost(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update scheduled post")
	}
	return ScheduledPostFromModel(post), nil
}

func (s *service) DeleteScheduledPost(ctx context.Context, companyID, id uuid.UUID) error {
	if _, err := s.loadScopedPost(ctx, companyID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteScheduledPost(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete scheduled post")
	}
	return nil
}

// PublishScheduledPost pushes a queued post to Instagram immediately. Provider
// failures are recorded on the row so the queue never silently loses posts.
func (s *service) PublishScheduledPost(ctx context.Context, companyID, id uuid.UUID) (*ScheduledPostDTO, error) {
	post, err := s.loadScopedPost(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if post.Status != enums.PostStatusScheduled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "post is not in a publishable state")
	}

	igUser, igToken, err := s.loadCredentials(ctx, companyID)
	if err != nil {
		return nil, err
	}

	result, err := s.publisher.Publish(ctx, instagram.PublishInput{
		IGUserID:    igUser,
		AccessToken: igToken,
		ImageURL:    post.ImageURL,
		Caption:     post.Caption,
	})
	if err != nil {
		msg := err.Error()
		post.Status = enums.PostStatusFailed
		post.FailureMessage = &msg
		_ = s.repo.UpdateScheduledPost(ctx, post)
		return nil, err
	}

	now := s.now()
	post.Status = enums.PostStatusPublished
	post.PublishedAt = &now
	post.FailureMessage = nil
	if err := s.repo.UpdateScheduledPost(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update scheduled post")
	}

	if post.VehicleID != nil {
		_ = s.repo.CreateVehiclePost(ctx, &models.VehicleSocialPost{
			ID:             uuid.New(),
			CompanyID:      companyID,
			VehicleID:      *post.VehicleID,
			ProviderPostID: result.MediaID,
			PublishedAt:    now,
		})
	}
	return ScheduledPostFromModel(post), nil
}

func (s *service) ListTemplates(ctx context.Context, companyID uuid.UUID) ([]TemplateDTO, error) {
	rows, err := s.repo.ListTemplates(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list templates")
	}
	dtos := make([]TemplateDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *TemplateFromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) CreateTemplate(ctx context.Context, companyID uuid.UUID, name, body string) (*TemplateDTO, error) {
	name = strings.TrimSpace(name)
	body = strings.TrimSpace(body)
	switch {
	case name == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "template name is required")
	case body == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "template body is required")
	}

	template := &models.SocialPostTemplate{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      name,
		Body:      body,
	}
	if err := s.repo.CreateTemplate(ctx, template); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create template")
	}
	return TemplateFromModel(template), nil
}

func (s *service) UpdateTemplate(ctx context.Context, companyID, id uuid.UUID, name, body *string) (*TemplateDTO, error) {
	template, err := s.loadScopedTemplate(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		value := strings.TrimSpace(*name)
		if value == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "template name cannot be empty")
		}
		template.Name = value
	}
	if body != nil {
		value := strings.TrimSpace(*body)
		if value == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "template body cannot be empty")
		}
		template.Body = value
	}

	if err := s.repo.UpdateTemplate(ctx, template); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update template")
	}
	return TemplateFromModel(template), nil
}

func (s *service) DeleteTemplate(ctx context.Context, companyID, id uuid.UUID) error {
	if _, err := s.loadScopedTemplate(ctx, companyID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteTemplate(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete template")
	}
	return nil
}

// GetAutoPostSettings returns the stored row or disabled defaults.
func (s *service) GetAutoPostSettings(ctx context.Context, companyID uuid.UUID) (*AutoPostSettingsDTO, error) {
	settings, err := s.repo.GetAutoPostSettings(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &AutoPostSettingsDTO{CompanyID: companyID, Enabled: false, PostTimeUTC: "09:00"}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load auto-post settings")
	}
	return AutoPostSettingsFromModel(settings), nil
}

func (s *service) PutAutoPostSettings(ctx context.Context, companyID uuid.UUID, input AutoPostSettingsInput) (*AutoPostSettingsDTO, error) {
	postTime := strings.TrimSpace(input.PostTimeUTC)
	if postTime == "" {
		postTime = "09:00"
	}
	if !postTimePattern.MatchString(postTime) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post time must be HH:MM")
	}
	if input.TemplateID != nil {
		if _, err := s.loadScopedTemplate(ctx, companyID, *input.TemplateID); err != nil {
			return nil, err
		}
	}

	settings := &models.CompanyAutoPostSettings{
		CompanyID:   companyID,
		Enabled:     input.Enabled,
		PostTimeUTC: postTime,
		TemplateID:  input.TemplateID,
		UpdatedAt:   s.now(),
	}
	if err := s.repo.UpsertAutoPostSettings(ctx, settings); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save auto-post settings")
	}
	return AutoPostSettingsFromModel(settings), nil
}

// PublishVehicle posts the vehicle's image immediately and records the
// provider media id.
func (s *service) PublishVehicle(ctx context.Context, companyID, vehicleID uuid.UUID, caption string) (*VehiclePostDTO, error) {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "caption is required")
	}

	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}
	if vehicle.CompanyID != companyID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}
	if vehicle.ImageURL == nil || *vehicle.ImageURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle has no image to post")
	}

	igUser, igToken, err := s.loadCredentials(ctx, companyID)
	if err != nil {
		return nil, err
	}

	result, err := s.publisher.Publish(ctx, instagram.PublishInput{
		IGUserID:    igUser,
		AccessToken: igToken,
		ImageURL:    *vehicle.ImageURL,
		Caption:     caption,
	})
	if err != nil {
		return nil, err
	}

	record := &models.VehicleSocialPost{
		ID:             uuid.New(),
		CompanyID:      companyID,
		VehicleID:      vehicleID,
		ProviderPostID: result.MediaID,
		PublishedAt:    s.now(),
	}
	if err := s.repo.CreateVehiclePost(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record vehicle post")
	}
	return VehiclePostFromModel(record), nil
}

// RefreshAnalytics pulls current insights for a published vehicle post and
// appends a snapshot row.
func (s *service) RefreshAnalytics(ctx context.Context, companyID, vehiclePostID uuid.UUID) (*AnalyticsDTO, error) {
	post, err := s.repo.FindVehiclePostByID(ctx, vehiclePostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	if post.CompanyID != companyID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
	}

	_, igToken, err := s.loadCredentials(ctx, companyID)
	if err != nil {
		return nil, err
	}

	insights, err := s.publisher.FetchInsights(ctx, post.ProviderPostID, igToken)
	if err != nil {
		return nil, err
	}

	row := &models.SocialPostAnalytics{
		ID:          uuid.New(),
		CompanyID:   companyID,
		PostID:      post.ID,
		Impressions: int(insights.Impressions),
		Likes:       int(insights.Likes),
		Comments:    int(insights.Comments),
		FetchedAt:   s.now(),
	}
	if err := s.repo.CreateAnalytics(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record analytics")
	}
	return AnalyticsFromModel(row), nil
}

func (s *service) ListAnalytics(ctx context.Context, companyID uuid.UUID) ([]AnalyticsDTO, error) {
	rows, err := s.repo.ListAnalytics(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list analytics")
	}
	dtos := make([]AnalyticsDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *AnalyticsFromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) loadScopedPost(ctx context.Context, companyID, id uuid.UUID) (*models.ScheduledPost, error) {
	post, err := s.repo.FindScheduledPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	if post.CompanyID != companyID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
	}
	return post, nil
}

func (s *service) loadScopedTemplate(ctx context.Context, companyID, id uuid.UUID) (*models.SocialPostTemplate, error) {
	template, err := s.repo.FindTemplateByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load template")
	}
	if template.CompanyID != companyID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
	}
	return template, nil
}

func (s *service) loadCredentials(ctx context.Context, companyID uuid.UUID) (string, string, error) {
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return "", "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}
	if company.IGUserID == nil || company.IGAccessToken == nil ||
		strings.TrimSpace(*company.IGUserID) == "" || strings.TrimSpace(*company.IGAccessToken) == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "company has no instagram account connected")
	}
	return *company.IGUserID, *company.IGAccessToken, nil
}
