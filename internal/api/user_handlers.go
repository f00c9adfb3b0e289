package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmark/shelfmark-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's account",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me/profile",
		Summary:     "Get profile",
		Description: "Returns the current user's profile, empty before the first edit",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPut,
		Path:        "/api/v1/users/me/profile",
		Summary:     "Update profile",
		Description: "Creates or replaces the current user's profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProfile)
}

// === DTOs ===

// GetCurrentUserInput carries the credentials for the current-user lookup.
type GetCurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

// UserOutput wraps a user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// GetProfileInput carries the credentials for the profile lookup.
type GetProfileInput struct {
	Authorization string `header:"Authorization"`
}

// ProfileResponse contains profile data in API responses.
type ProfileResponse struct {
	UserID    string    `json:"user_id" doc:"Owning user ID"`
	Username  string    `json:"username" doc:"Public username"`
	Bio       string    `json:"bio,omitempty" doc:"Short bio"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// ProfileOutput wraps the profile response for Huma.
type ProfileOutput struct {
	Body ProfileResponse
}

// UpdateProfileRequest is the request body for replacing the profile.
type UpdateProfileRequest struct {
	Username string `json:"username" validate:"required,max=50" doc:"Public username"`
	Bio      string `json:"bio,omitempty" validate:"omitempty,max=500" doc:"Short bio"`
}

// UpdateProfileInput wraps the profile update request for Huma.
type UpdateProfileInput struct {
	Authorization string `header:"Authorization"`
	Body          UpdateProfileRequest
}

// === Handlers ===

func (s *Server) handleGetCurrentUser(ctx context.Context, input *GetCurrentUserInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Auth.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleGetProfile(ctx context.Context, input *GetProfileInput) (*ProfileOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{
		Body: ProfileResponse{
			UserID:    profile.UserID,
			Username:  profile.Username,
			Bio:       profile.Bio,
			UpdatedAt: profile.UpdatedAt,
		},
	}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*ProfileOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.Update(ctx, userID, service.UpdateProfileRequest{
		Username: input.Body.Username,
		Bio:      input.Body.Bio,
	})
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{
		Body: ProfileResponse{
			UserID:    profile.UserID,
			Username:  profile.Username,
			Bio:       profile.Bio,
			UpdatedAt: profile.UpdatedAt,
		},
	}, nil
}
