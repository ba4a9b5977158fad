package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RoleMutationRequest struct {
	Role    string `json:"role"`
	Subject string `json:"subject"`
}

type RoleMutationResponse struct {
	Role    string `json:"role"`
	Subject string `json:"subject"`
	Changed bool   `json:"changed"`
}

type HasRoleResponse struct {
	Role    string `json:"role"`
	Subject string `json:"subject"`
	Has     bool   `json:"has"`
}

type RoleAssignmentItem struct {
	Role      string `json:"role"`
	Subject   string `json:"subject"`
	GrantedBy string `json:"granted_by"`
	GrantedAt string `json:"granted_at"`
}

type RoleAssignmentsResponse struct {
	Items []RoleAssignmentItem `json:"items"`
}
