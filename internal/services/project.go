package services

import (
	"errors"

	"github.com/practicstudio/devtrack/internal/models"
	"github.com/practicstudio/devtrack/internal/policy"
	"github.com/practicstudio/devtrack/internal/validation"
	"gorm.io/gorm"
)

// ProjectService implements the project lifecycle. Every read/update/delete
// goes through the ownership policy; creation stamps the owner server-side.
type ProjectService struct {
	DB     *gorm.DB
	policy *policy.OwnershipPolicy
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{DB: db, policy: policy.NewOwnershipPolicy()}
}

// ProjectInput is the allow-listed field set for create and update.
// user_id deliberately has no place here: the acting user is stamped by
// the service and any client-supplied value is ignored.
type ProjectInput struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Login         *string `json:"login"`
	Password      *string `json:"password"`
	URL           *string `json:"url"`
	Accesses      *string `json:"accesses"`
	AdminURL      *string `json:"admin_url"`
	AdminLogin    *string `json:"admin_login"`
	AdminPassword *string `json:"admin_password"`
	SSHHost       *string `json:"ssh_host"`
	SSHUser       *string `json:"ssh_user"`
	SSHPassword   *string `json:"ssh_password"`
	SSHPort       *int    `json:"ssh_port"`
	BuildCommands *string `json:"build_commands"`
	Notes         *string `json:"notes"`
}

// List returns the user's projects, newest first.
func (s *ProjectService) List(user *models.User) ([]models.Project, error) {
	var projects []models.Project
	err := s.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Find(&projects).Error
	return projects, err
}

// Create persists a new project owned by the acting user.
func (s *ProjectService) Create(user *models.User, input ProjectInput) (*models.Project, error) {
	v := validation.Violations{}
	if input.Title == nil {
		v["title"] = "required"
	} else {
		validation.Required("title", *input.Title, v)
		validation.MaxLen("title", *input.Title, 255, v)
	}
	if !v.Empty() {
		return nil, NewValidationError(v)
	}

	project := models.Project{UserID: user.ID, SSHPort: 22}
	applyProjectInput(&project, input)
	if err := s.DB.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Get fetches a project after the ownership guard.
func (s *ProjectService) Get(user *models.User, id uint) (*models.Project, error) {
	var project models.Project
	if err := s.DB.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !s.policy.Can(user.ID, project) {
		return nil, ErrForbidden
	}
	return &project, nil
}

// Update applies a partial update. Supplied fields must still satisfy
// their constraints (a supplied title may not be blank).
func (s *ProjectService) Update(user *models.User, id uint, input ProjectInput) (*models.Project, error) {
	project, err := s.Get(user, id)
	if err != nil {
		return nil, err
	}
	v := validation.Violations{}
	if input.Title != nil {
		validation.Required("title", *input.Title, v)
		validation.MaxLen("title", *input.Title, 255, v)
	}
	if !v.Empty() {
		return nil, NewValidationError(v)
	}
	applyProjectInput(project, input)
	if err := s.DB.Save(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// Delete hard-deletes a project. Its tasks survive and are detached
// (project_id set NULL) rather than cascade-deleted; see DESIGN.md.
func (s *ProjectService) Delete(user *models.User, id uint) error {
	project, err := s.Get(user, id)
	if err != nil {
		return err
	}
	if err := s.DB.Model(&models.Task{}).
		Where("project_id = ?", project.ID).
		Update("project_id", nil).Error; err != nil {
		return err
	}
	return s.DB.Delete(project).Error
}

func applyProjectInput(p *models.Project, in ProjectInput) {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Login != nil {
		p.Login = *in.Login
	}
	if in.Password != nil {
		p.Password = *in.Password
	}
	if in.URL != nil {
		p.URL = *in.URL
	}
	if in.Accesses != nil {
		p.Accesses = *in.Accesses
	}
	if in.AdminURL != nil {
		p.AdminURL = *in.AdminURL
	}
	if in.AdminLogin != nil {
		p.AdminLogin = *in.AdminLogin
	}
	if in.AdminPassword != nil {
		p.AdminPassword = *in.AdminPassword
	}
	if in.SSHHost != nil {
		p.SSHHost = *in.SSHHost
	}
	if in.SSHUser != nil {
		p.SSHUser = *in.SSHUser
	}
	if in.SSHPassword != nil {
		p.SSHPassword = *in.SSHPassword
	}
	if in.SSHPort != nil {
		p.SSHPort = *in.SSHPort
	}
	if in.BuildCommands != nil {
		p.BuildCommands = *in.BuildCommands
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}
}
