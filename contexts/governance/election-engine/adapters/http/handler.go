package httpadapter

import (
	"context"
	"log/slog"

	"ledgervote/contexts/governance/election-engine/application/commands"
	"ledgervote/contexts/governance/election-engine/application/queries"
	"ledgervote/contexts/governance/election-engine/domain/entities"
	httptransport "ledgervote/contexts/governance/election-engine/transport/http"

	"github.com/samber/lo"
)

// Handler adapts transport DTOs to engine use cases. caller is the
// authenticated principal; idempotencyKey may be empty.
type Handler struct {
	Elections commands.ElectionUseCase
	Queries   queries.ElectionQueries
	Logger    *slog.Logger
}

func (h Handler) CreateElectionHandler(
	ctx context.Context,
	caller string,
	idempotencyKey string,
	req httptransport.CreateElectionRequest,
) (httptransport.CreateElectionResponse, error) {
	result, err := h.Elections.CreateElection(ctx, commands.CreateElectionCommand{
		Caller:               caller,
		Manager:              req.Manager,
		Name:                 req.Name,
		Description:          req.Description,
		StartTime:            req.StartTime,
		EndTime:              req.EndTime,
		RegistrationDeadline: req.RegistrationDeadline,
		IdempotencyKey:       idempotencyKey,
	})
	if err != nil {
		return httptransport.CreateElectionResponse{}, err
	}
	return httptransport.CreateElectionResponse{
		ElectionID: result.ElectionID,
		Address:    result.Address,
		Replayed:   result.Replayed,
	}, nil
}

func (h Handler) GetElectionHandler(ctx context.Context, address string) (httptransport.ElectionInfoResponse, error) {
	info, err := h.Queries.ElectionInfo(ctx, address)
	if err != nil {
		return httptransport.ElectionInfoResponse{}, err
	}
	registered, err := h.Queries.TotalRegisteredCandidates(ctx, address)
	if err != nil {
		return httptransport.ElectionInfoResponse{}, err
	}
	return httptransport.ElectionInfoResponse{
		ElectionSummaryResponse:   mapSummary(info.ElectionSummary),
		Description:               info.Description,
		Creator:                   info.Creator,
		TotalVotes:                info.TotalVotes,
		TotalCandidates:           info.TotalCandidates,
		TotalRegisteredCandidates: registered,
		WinnerID:                  info.WinnerID,
	}, nil
}

func (h Handler) ListElectionsHandler(ctx context.Context) (httptransport.ListElectionsResponse, error) {
	items, err := h.Queries.ListElections(ctx)
	if err != nil {
		return httptransport.ListElectionsResponse{}, err
	}
	total, err := h.Queries.TotalElections(ctx)
	if err != nil {
		return httptransport.ListElectionsResponse{}, err
	}
	return httptransport.ListElectionsResponse{
		Total: total,
		Items: lo.Map(items, func(item queries.ElectionSummary, _ int) httptransport.ElectionSummaryResponse {
			return mapSummary(item)
		}),
	}, nil
}

func (h Handler) SetActivationHandler(ctx context.Context, caller string, address string, active bool) (httptransport.ActivationResponse, error) {
	cmd := commands.ActivationCommand{Caller: caller, Election: address}
	var (
		result commands.ActivationResult
		err    error
	)
	if active {
		result, err = h.Elections.Reactivate(ctx, cmd)
	} else {
		result, err = h.Elections.Deactivate(ctx, cmd)
	}
	if err != nil {
		return httptransport.ActivationResponse{}, err
	}
	return httptransport.ActivationResponse{
		IsActive: result.IsActive,
		Changed:  result.Changed,
		Version:  result.Version,
	}, nil
}

// TransitionHandler drives the lifecycle operation named by action:
// start-registration, start-voting or end.
func (h Handler) TransitionHandler(
	ctx context.Context,
	caller string,
	idempotencyKey string,
	address string,
	action string,
) (httptransport.TransitionResponse, error) {
	cmd := commands.LifecycleCommand{Caller: caller, Election: address, IdempotencyKey: idempotencyKey}
	var (
		result commands.TransitionResult
		err    error
	)
	switch action {
	case "start-registration":
		result, err = h.Elections.StartCandidateRegistration(ctx, cmd)
	case "start-voting":
		result, err = h.Elections.StartVoting(ctx, cmd)
	case "end":
		result, err = h.Elections.EndElection(ctx, cmd)
	default:
		return httptransport.TransitionResponse{}, ErrUnknownAction
	}
	if err != nil {
		return httptransport.TransitionResponse{}, err
	}
	return httptransport.TransitionResponse{
		From:     string(result.From),
		To:       string(result.To),
		Version:  result.Version,
		Replayed: result.Replayed,
	}, nil
}

func (h Handler) DeclareResultHandler(
	ctx context.Context,
	caller string,
	idempotencyKey string,
	address string,
) (httptransport.DeclareResultResponse, error) {
	result, err := h.Elections.DeclareResult(ctx, commands.LifecycleCommand{
		Caller:         caller,
		Election:       address,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return httptransport.DeclareResultResponse{}, err
	}
	return httptransport.DeclareResultResponse{
		WinnerID:   result.WinnerID,
		TotalVotes: result.TotalVotes,
		Version:    result.Version,
		Replayed:   result.Replayed,
	}, nil
}

func (h Handler) RegisterCandidateHandler(
	ctx context.Context,
	caller string,
	idempotencyKey string,
	address string,
	req httptransport.RegisterCandidateRequest,
) (httptransport.RegisterCandidateResponse, error) {
	result, err := h.Elections.RegisterCandidate(ctx, commands.RegisterCandidateCommand{
		Caller:         caller,
		Election:       address,
		Name:           req.Name,
		Party:          req.Party,
		Manifesto:      req.Manifesto,
		ImageHash:      req.ImageHash,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return httptransport.RegisterCandidateResponse{}, err
	}
	return httptransport.RegisterCandidateResponse{
		CandidateID: result.CandidateID,
		Version:     result.Version,
		Replayed:    result.Replayed,
	}, nil
}

func (h Handler) ValidateCandidateHandler(
	ctx context.Context,
	caller string,
	idempotencyKey string,
	address string,
	candidateID uint64,
	req httptransport.ValidateCandidateRequest,
) (httptransport.ValidateCandidateResponse, error) {
	result, err := h.Elections.ValidateCandidate(ctx, commands.ValidateCandidateCommand{
		Caller:         caller,
		Election:       address,
		CandidateID:    candidateID,
		Approve:        req.Approve,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return httptransport.ValidateCandidateResponse{}, err
	}
	return httptransport.ValidateCandidateResponse{
		CandidateID: result.CandidateID,
		Status:      string(result.Status),
		Version:     result.Version,
		Replayed:    result.Replayed,
	}, nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	caller string,
	idempotencyKey string,
	address string,
	req httptransport.CastVoteRequest,
) (httptransport.CastVoteResponse, error) {
	result, err := h.Elections.CastVote(ctx, commands.CastVoteCommand{
		Caller:         caller,
		Election:       address,
		CandidateID:    req.CandidateID,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{
		CandidateID: result.CandidateID,
		TotalVotes:  result.TotalVotes,
		Version:     result.Version,
		Replayed:    result.Replayed,
	}, nil
}

func (h Handler) GetCandidateHandler(ctx context.Context, address string, candidateID uint64) (httptransport.CandidateResponse, error) {
	candidate, err := h.Queries.GetCandidate(ctx, address, candidateID)
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return mapCandidate(candidate), nil
}

// ListCandidatesHandler lists candidates filtered by status: approved,
// pending, or empty for every registration.
func (h Handler) ListCandidatesHandler(ctx context.Context, address string, status string) (httptransport.CandidateListResponse, error) {
	var (
		items []entities.Candidate
		err   error
	)
	switch status {
	case "", "all":
		var election entities.Election
		election, err = h.Queries.Snapshot(ctx, address)
		items = election.Candidates
	case string(entities.CandidateStatusApproved):
		items, err = h.Queries.ApprovedCandidates(ctx, address)
	case string(entities.CandidateStatusPending):
		items, err = h.Queries.PendingCandidates(ctx, address)
	default:
		return httptransport.CandidateListResponse{}, ErrUnknownCandidateFilter
	}
	if err != nil {
		return httptransport.CandidateListResponse{}, err
	}
	return httptransport.CandidateListResponse{Items: lo.Map(items, func(item entities.Candidate, _ int) httptransport.CandidateResponse {
		return mapCandidate(item)
	})}, nil
}

func (h Handler) ResultsHandler(ctx context.Context, address string) (httptransport.CandidateListResponse, error) {
	items, err := h.Queries.Results(ctx, address)
	if err != nil {
		return httptransport.CandidateListResponse{}, err
	}
	return httptransport.CandidateListResponse{Items: lo.Map(items, func(item entities.Candidate, _ int) httptransport.CandidateResponse {
		return mapCandidate(item)
	})}, nil
}

func (h Handler) WinnerHandler(ctx context.Context, address string) (httptransport.WinnerResponse, error) {
	winner, err := h.Queries.Winner(ctx, address)
	if err != nil {
		return httptransport.WinnerResponse{}, err
	}
	return httptransport.WinnerResponse{WinnerID: winner}, nil
}

func (h Handler) VoterStatusHandler(ctx context.Context, address string, voter string) (httptransport.VoterStatusResponse, error) {
	status, err := h.Queries.VoterStatus(ctx, address, voter)
	if err != nil {
		return httptransport.VoterStatusResponse{}, err
	}
	return httptransport.VoterStatusResponse{
		Voter:       voter,
		IsRoleVoter: status.IsRoleVoter,
		HasVoted:    status.HasVoted,
		VotedFor:    status.VotedFor,
	}, nil
}

func mapSummary(item queries.ElectionSummary) httptransport.ElectionSummaryResponse {
	return httptransport.ElectionSummaryResponse{
		ID:                   item.ID,
		Address:              item.Address,
		Name:                 item.Name,
		Manager:              item.Manager,
		Status:               string(item.Status),
		IsActive:             item.IsActive,
		StartTime:            item.StartTime,
		EndTime:              item.EndTime,
		RegistrationDeadline: item.RegistrationDeadline,
		CreatedAt:            item.CreatedAt,
		Version:              item.Version,
	}
}

func mapCandidate(item entities.Candidate) httptransport.CandidateResponse {
	return httptransport.CandidateResponse{
		ID:           item.ID,
		Owner:        item.Owner.String(),
		Name:         item.Name,
		Party:        item.Party,
		Manifesto:    item.Manifesto,
		ImageHash:    item.ImageHash,
		Status:       string(item.Status),
		VoteCount:    item.VoteCount,
		RegisteredAt: item.RegisteredAt,
		ValidatedAt:  item.ValidatedAt,
	}
}
