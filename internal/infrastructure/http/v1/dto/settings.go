package dto

import "epistock/internal/domain/policy"

// SettingsResponse exposes the stock-control policy flags.
type SettingsResponse struct {
	AllowNegativeStock     bool `json:"allowNegativeStock"`
	AllowForcedAdjustments bool `json:"allowForcedAdjustments"`
}

// NewSettingsResponse builds a response from a policy snapshot.
func NewSettingsResponse(cfg policy.Config) SettingsResponse {
	return SettingsResponse{
		AllowNegativeStock:     cfg.AllowNegativeStock,
		AllowForcedAdjustments: cfg.AllowForcedAdjustments,
	}
}

// UpdateSettingsRequest replaces the policy flags.
type UpdateSettingsRequest struct {
	AllowNegativeStock     bool `json:"allowNegativeStock"`
	AllowForcedAdjustments bool `json:"allowForcedAdjustments"`
}

// ToConfig converts the request to a policy snapshot.
func (r *UpdateSettingsRequest) ToConfig() policy.Config {
	return policy.Config{
		AllowNegativeStock:     r.AllowNegativeStock,
		AllowForcedAdjustments: r.AllowForcedAdjustments,
	}
}
