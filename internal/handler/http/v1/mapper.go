package v1

import (
	"github.com/shenikar/irdesk/internal/models"
)

func IncidentRequestToModel(dto IncidentRequest) *models.Incident {
	return &models.Incident{
		Title:       dto.Title,
		Description: dto.Description,
		Severity:    dto.Severity,
		Category:    dto.Category,
		AssigneeID:  dto.AssigneeID,
		Tags:        dto.Tags,
		AssetIDs:    dto.AssetIDs,
		DetectedAt:  dto.DetectedAt,
	}
}

func AssetRequestToModel(dto AssetRequest) *models.Asset {
	return &models.Asset{
		Name:        dto.Name,
		Type:        dto.Type,
		Criticality: dto.Criticality,
		Owner:       dto.Owner,
		Hostname:    dto.Hostname,
		IPAddress:   dto.IPAddress,
		Description: dto.Description,
		Tags:        dto.Tags,
	}
}

func CreateUserRequestToModel(dto CreateUserRequest) *models.User {
	return &models.User{
		Email: dto.Email,
		Name:  dto.Name,
		Role:  dto.Role,
	}
}

func UpdateUserRequestToModel(dto UpdateUserRequest) models.UserUpdate {
	return models.UserUpdate{Name: dto.Name, Role: dto.Role, Active: dto.Active}
}

func DropdownRequestToModel(key string, dto DropdownRequest) *models.Dropdown {
	options := make([]models.DropdownOption, len(dto.Options))
	for i, o := range dto.Options {
		options[i] = models.DropdownOption{Value: o.Value, Label: o.Label}
	}
	return &models.Dropdown{Key: key, Label: dto.Label, Options: options}
}

func TemplateRequestToModel(dto TemplateRequest) *models.Template {
	return &models.Template{
		Name:     dto.Name,
		Category: dto.Category,
		Subject:  dto.Subject,
		Body:     dto.Body,
	}
}

func SendRequestToModel(dto SendCommunicationRequest) models.SendRequest {
	return models.SendRequest{
		TemplateID: dto.TemplateID,
		IncidentID: dto.IncidentID,
		Channel:    dto.Channel,
		Recipients: dto.Recipients,
		Variables:  dto.Variables,
	}
}

func RunbookRequestToModel(dto RunbookRequest) *models.Runbook {
	steps := make([]models.RunbookStep, len(dto.Steps))
	for i, s := range dto.Steps {
		steps[i] = models.RunbookStep{
			ID:               s.ID,
			Phase:            s.Phase,
			Order:            s.Order,
			Title:            s.Title,
			Instructions:     s.Instructions,
			EstimatedMinutes: s.EstimatedMinutes,
		}
	}
	return &models.Runbook{
		Name:             dto.Name,
		Description:      dto.Description,
		IncidentCategory: dto.IncidentCategory,
		Steps:            steps,
	}
}

func ExerciseRequestToModel(dto ExerciseRequest) *models.Exercise {
	return &models.Exercise{
		Title:        dto.Title,
		Scenario:     dto.Scenario,
		Type:         dto.Type,
		RunbookID:    dto.RunbookID,
		Participants: dto.Participants,
		ScheduledAt:  dto.ScheduledAt,
	}
}

func ProvisionRequestToModel(dto ProvisionOrganizationRequest) models.ProvisionRequest {
	return models.ProvisionRequest{
		Name:          dto.Name,
		Slug:          dto.Slug,
		ContactEmail:  dto.ContactEmail,
		Plan:          dto.Plan,
		AdminEmail:    dto.AdminEmail,
		AdminName:     dto.AdminName,
		AdminPassword: dto.AdminPassword,
	}
}

func LicenseRequestToUpdate(dto UpdateLicenseRequest) models.LicenseUpdate {
	return models.LicenseUpdate{
		Plan:        dto.Plan,
		MaxUsers:    dto.MaxUsers,
		MaxAssets:   dto.MaxAssets,
		MaxRunbooks: dto.MaxRunbooks,
		Features:    dto.Features,
		ExpiresAt:   dto.ExpiresAt,
	}
}

// ExecutionToResponse attaches phase progress computed at the given instant.
func (h *Handler) ExecutionToResponse(e *models.RunbookExecution) *ExecutionResponse {
	return &ExecutionResponse{RunbookExecution: e, Progress: e.Progress(h.now())}
}

func (h *Handler) ExecutionsToResponses(executions []*models.RunbookExecution) []*ExecutionResponse {
	responses := make([]*ExecutionResponse, len(executions))
	for i, e := range executions {
		responses[i] = h.ExecutionToResponse(e)
	}
	return responses
}
