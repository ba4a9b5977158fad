package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type MirrorCandidate struct {
	ID        uint64 `json:"id"`
	Owner     string `json:"owner"`
	Name      string `json:"name"`
	Party     string `json:"party"`
	Manifesto string `json:"manifesto"`
	ImageHash string `json:"image_hash"`
	Status    string `json:"status"`
	VoteCount uint64 `json:"vote_count"`
}

type MirrorElectionResponse struct {
	Address              string            `json:"address"`
	ElectionID           uint64            `json:"election_id"`
	Name                 string            `json:"name"`
	Description          string            `json:"description"`
	Manager              string            `json:"manager"`
	Status               string            `json:"status"`
	IsActive             bool              `json:"is_active"`
	StartTime            string            `json:"start_time"`
	EndTime              string            `json:"end_time"`
	RegistrationDeadline string            `json:"registration_deadline"`
	TotalVotes           uint64            `json:"total_votes"`
	TotalCandidates      uint64            `json:"total_candidates"`
	WinnerID             uint64            `json:"winner_id"`
	Version              uint64            `json:"version"`
	Candidates           []MirrorCandidate `json:"candidates"`
	SyncedAt             string            `json:"synced_at"`
}

type MirrorElectionListResponse struct {
	Total int                      `json:"total"`
	Items []MirrorElectionResponse `json:"items"`
}

type MirrorPrincipalResponse struct {
	Principal string   `json:"principal"`
	Roles     []string `json:"roles"`
	SyncedAt  string   `json:"synced_at"`
}
